package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hoangvu/gesture-crop/internal/config"
	"github.com/hoangvu/gesture-crop/internal/models"
	"github.com/hoangvu/gesture-crop/internal/services/ocr"
	"github.com/hoangvu/gesture-crop/internal/services/pipeline"
	"github.com/hoangvu/gesture-crop/internal/services/processor"
	"github.com/hoangvu/gesture-crop/internal/services/queue"
	"github.com/hoangvu/gesture-crop/internal/services/storage"
)

const (
	imageParamKey   = "image"
	payloadParamKey = "payload"
)

type CropHandler struct {
	pipeline  *pipeline.Pipeline
	engine    *processor.CropEngine
	storage   *storage.StorageService
	queue     *queue.QueueService
	extractor ocr.Extractor
	logger    *zap.Logger
	config    *config.Config
}

func NewCropHandler(
	pipe *pipeline.Pipeline,
	engine *processor.CropEngine,
	store *storage.StorageService,
	queueSvc *queue.QueueService,
	extractor ocr.Extractor,
	logger *zap.Logger,
	cfg *config.Config,
) *CropHandler {
	return &CropHandler{
		pipeline:  pipe,
		engine:    engine,
		storage:   store,
		queue:     queueSvc,
		extractor: extractor,
		logger:    logger,
		config:    cfg,
	}
}

// === MAIN API ENDPOINTS ===

// CropImage resolves a finished gesture against the uploaded image and
// returns the cropped artifact: raw encoded bytes by default, or a JSON
// result with a storage URL when the request asks for an upload.
func (h *CropHandler) CropImage(c *gin.Context) {
	imageData, err := h.readUploadedImage(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}

	req, err := h.parseGesturePayload(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.ValidateUpload(imageData, h.config.Storage.MaxFileSize); err != nil {
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("Invalid image: %v", err))
		return
	}

	artifact, err := h.pipeline.Run(h.pipelineRequest(imageData, req))
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}

	if req.Upload && h.storage != nil && h.storage.CanUpload() {
		h.respondWithUpload(c, artifact)
		return
	}
	h.respondWithArtifact(c, artifact)
}

// CropAndRecognize crops like CropImage, then hands the artifact to the OCR
// collaborator and returns the recognized text alongside the crop summary.
// The artifact is materialized as a temp file for the engine and deleted
// once recognition finishes.
func (h *CropHandler) CropAndRecognize(c *gin.Context) {
	if h.extractor == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Text recognition is not configured")
		return
	}

	imageData, err := h.readUploadedImage(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}

	req, err := h.parseGesturePayload(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.ValidateUpload(imageData, h.config.Storage.MaxFileSize); err != nil {
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("Invalid image: %v", err))
		return
	}

	artifact, err := h.pipeline.Run(h.pipelineRequest(imageData, req))
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}

	text, err := h.recognizeArtifact(c, imageData, req, artifact)
	if err != nil {
		h.logger.Error("Recognition failed", zap.Error(err))
		h.respondError(c, http.StatusBadGateway, "Text recognition failed")
		return
	}

	result := h.buildResult(artifact)
	result.Text = text
	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: result})
}

// BatchCrop resolves several gestures against one uploaded image.
func (h *CropHandler) BatchCrop(c *gin.Context) {
	imageData, err := h.readUploadedImage(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, "No image file provided")
		return
	}

	batch, err := h.parseBatchPayload(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.ValidateUpload(imageData, h.config.Storage.MaxFileSize); err != nil {
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("Invalid image: %v", err))
		return
	}

	reqs := make([]pipeline.Request, len(batch.Gestures))
	for i := range batch.Gestures {
		reqs[i] = h.pipelineRequest(imageData, &batch.Gestures[i])
	}

	artifacts, errs := h.pipeline.RunBatch(c.Request.Context(), reqs)
	response := h.buildBatchResponse(c, batch, artifacts, errs)

	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: response})
}

// CropAsync enqueues a crop job for an image fetched by URL; workers pick it
// up and store the artifact.
func (h *CropHandler) CropAsync(c *gin.Context) {
	if h.queue == nil {
		h.respondError(c, http.StatusServiceUnavailable, "Async processing is not available")
		return
	}

	var body struct {
		ImageURL  string                    `json:"image_url" binding:"required,url"`
		Recognize bool                      `json:"recognize"`
		Request   models.GestureCropRequest `json:"request" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	if err := normalizeGestureRequest(&body.Request); err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	job := &models.CropJob{
		ID:        uuid.New().String(),
		ImageURL:  body.ImageURL,
		Request:   body.Request,
		Recognize: body.Recognize,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}

	if err := h.queue.PublishJob(c.Request.Context(), job); err != nil {
		h.logger.Error("Failed to publish crop job", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to enqueue job")
		return
	}

	c.JSON(http.StatusAccepted, models.APIResponse{
		Success: true,
		Data:    gin.H{"job_id": job.ID, "status": job.Status},
	})
}

// HealthCheck reports the status of the storage and queue collaborators.
func (h *CropHandler) HealthCheck(c *gin.Context) {
	services := make(map[string]string)
	if h.storage != nil {
		services = h.storage.HealthCheck(c.Request.Context())
	}
	if h.queue != nil {
		services["rabbitmq"] = h.queue.HealthCheck()
	}

	overall := h.calculateOverallHealth(services)
	statusCode := http.StatusOK
	if overall == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == "healthy",
		Data: models.HealthCheck{
			Status:    overall,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}
