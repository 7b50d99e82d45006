package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hoangvu/gesture-crop/internal/models"
	"github.com/hoangvu/gesture-crop/internal/services/geometry"
	"github.com/hoangvu/gesture-crop/internal/services/pipeline"
	"github.com/hoangvu/gesture-crop/internal/services/processor"
)

// === REQUEST PARSING ===

func (h *CropHandler) readUploadedImage(c *gin.Context) ([]byte, error) {
	file, _, err := c.Request.FormFile(imageParamKey)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, h.config.Storage.MaxFileSize+1))
}

func (h *CropHandler) parseGesturePayload(c *gin.Context) (*models.GestureCropRequest, error) {
	jsonStr := c.PostForm(payloadParamKey)
	if jsonStr == "" {
		return nil, fmt.Errorf("missing payload parameter")
	}

	var req models.GestureCropRequest
	if err := json.Unmarshal([]byte(jsonStr), &req); err != nil {
		return nil, fmt.Errorf("invalid gesture payload: %v", err)
	}
	if err := normalizeGestureRequest(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *CropHandler) parseBatchPayload(c *gin.Context) (*models.BatchCropRequest, error) {
	jsonStr := c.PostForm(payloadParamKey)
	if jsonStr == "" {
		return nil, fmt.Errorf("missing payload parameter")
	}

	var batch models.BatchCropRequest
	if err := json.Unmarshal([]byte(jsonStr), &batch); err != nil {
		return nil, fmt.Errorf("invalid batch payload: %v", err)
	}
	if len(batch.Gestures) == 0 {
		return nil, fmt.Errorf("no gestures provided")
	}
	for i := range batch.Gestures {
		if err := normalizeGestureRequest(&batch.Gestures[i]); err != nil {
			return nil, fmt.Errorf("gesture %d: %v", i, err)
		}
	}
	return &batch, nil
}

// normalizeGestureRequest fills defaults and rejects values the pipeline
// would otherwise have to guess about.
func normalizeGestureRequest(req *models.GestureCropRequest) error {
	if req.Policy == "" {
		req.Policy = models.FitContain
	}
	if !req.Policy.Valid() {
		return fmt.Errorf("unknown fit policy %q", req.Policy)
	}
	if req.Format == "" {
		req.Format = models.FormatPNG
	}
	switch req.Format {
	case models.FormatPNG, models.FormatJPG, models.FormatJPEG:
	default:
		return fmt.Errorf("unsupported output format %q", req.Format)
	}
	if req.StrokeWidth < 0 {
		return fmt.Errorf("stroke width must not be negative")
	}
	return nil
}

func (h *CropHandler) pipelineRequest(imageData []byte, req *models.GestureCropRequest) pipeline.Request {
	return pipeline.Request{
		Image:       imageData,
		Path:        req.Path,
		StrokeWidth: req.StrokeWidth,
		DisplaySize: req.Display,
		Policy:      req.Policy,
		Format:      req.Format,
		Quality:     req.Quality,
	}
}

// === RESPONSE HANDLING ===

func (h *CropHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

// respondPipelineError maps the pipeline's typed failures onto HTTP codes.
// TooSmall and InvalidCropRegion are user-correctable selections, not
// system faults.
func (h *CropHandler) respondPipelineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, processor.ErrDecode):
		h.respondError(c, http.StatusBadRequest, "Unsupported or corrupt image")
	case errors.Is(err, geometry.ErrInvalidGeometry):
		h.respondError(c, http.StatusUnprocessableEntity, "Invalid display geometry")
	case errors.Is(err, pipeline.ErrTooSmall):
		h.respondError(c, http.StatusUnprocessableEntity, "Selection too small")
	case errors.Is(err, processor.ErrInvalidCropRegion):
		h.respondError(c, http.StatusUnprocessableEntity, "Selection is outside the image")
	default:
		h.logger.Error("Crop pipeline failed", zap.Error(err))
		h.respondError(c, http.StatusInternalServerError, "Failed to process image")
	}
}

func (h *CropHandler) respondWithArtifact(c *gin.Context, artifact *models.CroppedArtifact) {
	c.Header("X-Crop-Width", strconv.Itoa(artifact.Width))
	c.Header("X-Crop-Height", strconv.Itoa(artifact.Height))
	c.Data(http.StatusOK, artifact.ContentType(), artifact.Data)
}

func (h *CropHandler) respondWithUpload(c *gin.Context, artifact *models.CroppedArtifact) {
	result := h.buildResult(artifact)

	filename := fmt.Sprintf("cropped_image_%d.%s", time.Now().UnixMilli(), artifact.Format)
	url, err := h.storage.Upload(c.Request.Context(), artifact, filename)
	if err != nil {
		h.logger.Warn("Failed to upload artifact", zap.Error(err))
	} else {
		result.URL = url
	}

	c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: result})
}

func (h *CropHandler) buildResult(artifact *models.CroppedArtifact) *models.CropResult {
	return &models.CropResult{
		ID:          uuid.New().String(),
		Format:      artifact.Format,
		Width:       artifact.Width,
		Height:      artifact.Height,
		FileSize:    int64(len(artifact.Data)),
		ProcessedAt: time.Now(),
	}
}

type batchCropItem struct {
	Index  int                `json:"index"`
	Error  string             `json:"error,omitempty"`
	Result *models.CropResult `json:"result,omitempty"`
	Data   []byte             `json:"data,omitempty"`
}

func (h *CropHandler) buildBatchResponse(c *gin.Context, batch *models.BatchCropRequest, artifacts []*models.CroppedArtifact, errs []error) []batchCropItem {
	items := make([]batchCropItem, len(artifacts))
	canUpload := h.storage != nil && h.storage.CanUpload()

	for i, artifact := range artifacts {
		items[i].Index = i
		if errs[i] != nil {
			items[i].Error = errs[i].Error()
			continue
		}

		items[i].Result = h.buildResult(artifact)
		if batch.Gestures[i].Upload && canUpload {
			filename := fmt.Sprintf("cropped_image_%d_%d.%s", time.Now().UnixMilli(), i, artifact.Format)
			if url, err := h.storage.Upload(c.Request.Context(), artifact, filename); err == nil {
				items[i].Result.URL = url
				continue
			}
		}
		items[i].Data = artifact.Data
	}
	return items
}

// === RECOGNITION ===

// recognizeArtifact checks the OCR cache, then materializes the artifact as
// a temp file for the engine and removes it afterwards.
func (h *CropHandler) recognizeArtifact(c *gin.Context, imageData []byte, req *models.GestureCropRequest, artifact *models.CroppedArtifact) (string, error) {
	ctx := c.Request.Context()

	var cacheKey string
	if h.storage != nil {
		cacheKey = h.storage.OCRCacheKey(imageData, req)
		if text, found, err := h.storage.GetOCRText(ctx, cacheKey); err == nil && found {
			return text, nil
		}
	}

	var text string
	if h.storage != nil {
		path, err := h.storage.SaveTemp(artifact)
		if err != nil {
			return "", err
		}
		defer h.storage.RemoveTemp(path)
		text, err = h.extractor.ExtractTextFromFile(ctx, path)
		if err != nil {
			return "", err
		}
	} else {
		var err error
		text, err = h.extractor.ExtractText(ctx, artifact.Data)
		if err != nil {
			return "", err
		}
	}

	if h.storage != nil && cacheKey != "" {
		if err := h.storage.SetOCRText(ctx, cacheKey, text); err != nil {
			h.logger.Warn("Failed to cache recognized text", zap.Error(err))
		}
	}
	return text, nil
}

// === UTILITY METHODS ===

func (h *CropHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != "healthy" && status != "not configured" {
			return "unhealthy"
		}
	}
	return "healthy"
}
