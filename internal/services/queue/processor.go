package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hoangvu/gesture-crop/internal/models"
	"github.com/hoangvu/gesture-crop/internal/services/pipeline"
	"github.com/hoangvu/gesture-crop/pkg/utils"
)

func (q *QueueService) processJob(ctx context.Context, job *models.CropJob) (*models.CropResult, error) {
	imageData, _, err := utils.DownloadImage(ctx, job.ImageURL, 10*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("failed to download source image: %w", err)
	}

	artifact, err := q.pipeline.Run(pipeline.Request{
		Image:       imageData,
		Path:        job.Request.Path,
		StrokeWidth: job.Request.StrokeWidth,
		DisplaySize: job.Request.Display,
		Policy:      job.Request.Policy,
		Format:      job.Request.Format,
		Quality:     job.Request.Quality,
	})
	if err != nil {
		return nil, err
	}

	result := &models.CropResult{
		ID:          job.ID,
		Format:      artifact.Format,
		Width:       artifact.Width,
		Height:      artifact.Height,
		FileSize:    int64(len(artifact.Data)),
		ProcessedAt: time.Now(),
	}

	if q.storage != nil && q.storage.CanUpload() {
		filename := fmt.Sprintf("cropped_image_%s.%s", uuid.New().String()[:8], artifact.Format)
		url, err := q.storage.Upload(ctx, artifact, filename)
		if err != nil {
			return nil, fmt.Errorf("failed to store artifact: %w", err)
		}
		result.URL = url
	}

	if job.Recognize && q.extractor != nil {
		text, err := q.recognize(ctx, job, imageData, artifact)
		if err != nil {
			// Text recognition failing does not void the crop itself.
			q.logger.Warn("Recognition failed for crop job",
				zap.String("job_id", job.ID),
				zap.Error(err))
		} else {
			result.Text = text
		}
	}

	return result, nil
}

// recognize runs OCR on the artifact, going through the redis cache keyed by
// image bytes + gesture parameters.
func (q *QueueService) recognize(ctx context.Context, job *models.CropJob, imageData []byte, artifact *models.CroppedArtifact) (string, error) {
	var cacheKey string
	if q.storage != nil {
		cacheKey = q.storage.OCRCacheKey(imageData, &job.Request)
		if text, found, err := q.storage.GetOCRText(ctx, cacheKey); err == nil && found {
			return text, nil
		}
	}

	text, err := q.extractor.ExtractText(ctx, artifact.Data)
	if err != nil {
		return "", err
	}

	if q.storage != nil && cacheKey != "" {
		if err := q.storage.SetOCRText(ctx, cacheKey, text); err != nil {
			q.logger.Warn("Failed to cache recognized text",
				zap.String("job_id", job.ID),
				zap.Error(err))
		}
	}
	return text, nil
}
