package storage

import (
	"context"
	"crypto/md5"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/hoangvu/gesture-crop/internal/models"
)

// GetOCRText returns the cached recognized text for a cache key, or found
// false on a miss.
func (s *StorageService) GetOCRText(ctx context.Context, cacheKey string) (string, bool, error) {
	text, err := s.redisClient.Get(ctx, cacheKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache get error: %w", err)
	}
	return text, true, nil
}

// SetOCRText caches recognized text for the configured duration.
func (s *StorageService) SetOCRText(ctx context.Context, cacheKey, text string) error {
	return s.redisClient.Set(ctx, cacheKey, text, s.cacheDuration).Err()
}

// OCRCacheKey derives a stable key from the raw image bytes and the gesture
// parameters, so the same selection on the same image never hits the OCR
// engine twice within the cache window.
func (s *StorageService) OCRCacheKey(imageData []byte, req *models.GestureCropRequest) string {
	hash := md5.New()
	hash.Write(imageData)

	fmt.Fprintf(hash, "stroke_%g_display_%g_%g_policy_%s_format_%s",
		req.StrokeWidth, req.Display.Width, req.Display.Height, req.Policy, req.Format)
	for _, p := range req.Path {
		fmt.Fprintf(hash, "_%g_%g", p.X, p.Y)
	}

	return fmt.Sprintf("ocr_cache:%x", hash.Sum(nil))
}
