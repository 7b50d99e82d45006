package queue

import (
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/hoangvu/gesture-crop/internal/services/ocr"
	"github.com/hoangvu/gesture-crop/internal/services/pipeline"
	"github.com/hoangvu/gesture-crop/internal/services/storage"
)

// QueueService runs crop jobs asynchronously: the API enqueues a job for an
// image reachable by URL, workers download it, run the crop pipeline and
// store the artifact (plus recognized text when requested).
type QueueService struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	logger    *zap.Logger
	queueName string
	pipeline  *pipeline.Pipeline
	storage   *storage.StorageService
	extractor ocr.Extractor
}

func NewQueueService(
	rabbitmqURL string,
	pipe *pipeline.Pipeline,
	store *storage.StorageService,
	extractor ocr.Extractor,
	logger *zap.Logger,
) (*QueueService, error) {
	conn, err := amqp.Dial(rabbitmqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queueName := "gesture_crop"

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &QueueService{
		conn:      conn,
		channel:   channel,
		logger:    logger,
		queueName: queueName,
		pipeline:  pipe,
		storage:   store,
		extractor: extractor,
	}, nil
}

// Close closes the queue connection.
func (q *QueueService) Close() error {
	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		q.conn.Close()
	}
	return nil
}

// HealthCheck reports whether RabbitMQ is reachable.
func (q *QueueService) HealthCheck() string {
	if q.conn == nil || q.conn.IsClosed() {
		return "unhealthy: connection closed"
	}
	if q.channel == nil {
		return "unhealthy: channel not available"
	}
	return "healthy"
}

// Stats exposes queue depth and consumer count.
func (q *QueueService) Stats() (map[string]interface{}, error) {
	queueInfo, err := q.channel.QueueInspect(q.queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect queue: %w", err)
	}
	return map[string]interface{}{
		"messages":  queueInfo.Messages,
		"consumers": queueInfo.Consumers,
		"name":      queueInfo.Name,
	}, nil
}
