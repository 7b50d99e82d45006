package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hoangvu/gesture-crop/internal/config"
	"github.com/hoangvu/gesture-crop/internal/models"
	"github.com/hoangvu/gesture-crop/internal/services/pipeline"
	"github.com/hoangvu/gesture-crop/internal/services/processor"
)

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) ExtractText(ctx context.Context, imageData []byte) (string, error) {
	return s.text, s.err
}

func (s *stubExtractor) ExtractTextFromFile(ctx context.Context, path string) (string, error) {
	return s.text, s.err
}

func (s *stubExtractor) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{MaxFileSize: 10 * 1024 * 1024},
	}
}

func testRouter(t *testing.T, extractor *stubExtractor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := processor.NewCropEngine()
	var h *CropHandler
	if extractor != nil {
		h = NewCropHandler(pipeline.New(engine), engine, nil, nil, extractor, zap.NewNop(), testConfig())
	} else {
		h = NewCropHandler(pipeline.New(engine), engine, nil, nil, nil, zap.NewNop(), testConfig())
	}

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.GET("/health", h.HealthCheck)
	crops := v1.Group("/crops")
	crops.POST("", h.CropImage)
	crops.POST("/ocr", h.CropAndRecognize)
	crops.POST("/batch", h.BatchCrop)
	crops.POST("/async", h.CropAsync)
	return router
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 10, G: 180, B: 90, A: 255})
	data, err := processor.NewCropEngine().Encode(img, models.FormatPNG, 0)
	if err != nil {
		t.Fatalf("fixture encode: %v", err)
	}
	return data
}

func multipartBody(t *testing.T, image []byte, payload any) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if image != nil {
		fw, err := mw.CreateFormFile("image", "source.png")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(image)
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		mw.WriteField("payload", string(data))
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func gesture(path models.Path) models.GestureCropRequest {
	return models.GestureCropRequest{
		Path:        path,
		StrokeWidth: 4,
		Display:     models.Size{Width: 200, Height: 200},
		Policy:      models.FitFill,
	}
}

func TestCropImage_ReturnsArtifactBytes(t *testing.T) {
	router := testRouter(t, nil)

	body, contentType := multipartBody(t, testPNG(t, 200, 200), gesture(models.Path{{X: 10, Y: 10}, {X: 80, Y: 80}}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crops", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type %q", ct)
	}
	if rec.Header().Get("X-Crop-Width") != "74" || rec.Header().Get("X-Crop-Height") != "74" {
		t.Fatalf("crop dimension headers wrong: %s x %s",
			rec.Header().Get("X-Crop-Width"), rec.Header().Get("X-Crop-Height"))
	}
	if rec.Body.Len() == 0 {
		t.Fatal("no artifact bytes returned")
	}
}

func TestCropImage_MissingPayload(t *testing.T) {
	router := testRouter(t, nil)

	body, contentType := multipartBody(t, testPNG(t, 50, 50), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crops", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestCropImage_UnknownPolicy(t *testing.T) {
	router := testRouter(t, nil)

	g := gesture(models.Path{{X: 0, Y: 0}, {X: 50, Y: 50}})
	g.Policy = "stretchy"
	body, contentType := multipartBody(t, testPNG(t, 50, 50), g)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crops", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestCropImage_CorruptImage(t *testing.T) {
	router := testRouter(t, nil)

	body, contentType := multipartBody(t, []byte("not pixels"), gesture(models.Path{{X: 0, Y: 0}, {X: 50, Y: 50}}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crops", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestCropImage_TooSmallSelection(t *testing.T) {
	router := testRouter(t, nil)

	body, contentType := multipartBody(t, testPNG(t, 200, 200), gesture(models.Path{{X: 0, Y: 0}, {X: 4, Y: 4}}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crops", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "Selection too small" {
		t.Fatalf("error message %q", resp.Error)
	}
}

func TestCropAndRecognize(t *testing.T) {
	router := testRouter(t, &stubExtractor{text: "recognized words"})

	body, contentType := multipartBody(t, testPNG(t, 200, 200), gesture(models.Path{{X: 10, Y: 10}, {X: 90, Y: 90}}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crops/ocr", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool              `json:"success"`
		Data    models.CropResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Text != "recognized words" {
		t.Fatalf("text %q", resp.Data.Text)
	}
	if resp.Data.Width != 84 || resp.Data.Height != 84 {
		t.Fatalf("crop size %dx%d", resp.Data.Width, resp.Data.Height)
	}
}

func TestCropAndRecognize_NotConfigured(t *testing.T) {
	router := testRouter(t, nil)

	body, contentType := multipartBody(t, testPNG(t, 50, 50), gesture(models.Path{{X: 0, Y: 0}, {X: 40, Y: 40}}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crops/ocr", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestBatchCrop(t *testing.T) {
	router := testRouter(t, nil)

	payload := models.BatchCropRequest{Gestures: []models.GestureCropRequest{
		gesture(models.Path{{X: 10, Y: 10}, {X: 80, Y: 80}}),
		gesture(models.Path{{X: 0, Y: 0}, {X: 4, Y: 4}}), // too small
	}}
	body, contentType := multipartBody(t, testPNG(t, 200, 200), payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crops/batch", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data []struct {
			Index  int                `json:"index"`
			Error  string             `json:"error"`
			Result *models.CropResult `json:"result"`
			Data   []byte             `json:"data"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Data))
	}
	if resp.Data[0].Error != "" || len(resp.Data[0].Data) == 0 {
		t.Fatalf("first gesture should succeed with inline data: %+v", resp.Data[0])
	}
	if resp.Data[1].Error == "" {
		t.Fatal("second gesture should fail")
	}
}

func TestCropAsync_QueueUnavailable(t *testing.T) {
	router := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/crops/async", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestHealthCheck_NoCollaborators(t *testing.T) {
	router := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}
