package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hoangvu/gesture-crop/internal/models"
)

// SaveTemp materializes an artifact as cropped_image_<unix_ms>.<ext> in the
// temp dir so collaborators like a local OCR binary can consume it by path.
// Rapid repeated crops can land on the same millisecond; an existing name
// gets a short random suffix instead of being overwritten. The caller owns
// the returned path and is expected to RemoveTemp it after use.
func (s *StorageService) SaveTemp(artifact *models.CroppedArtifact) (string, error) {
	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create temp dir %s: %w", s.tempDir, err)
	}

	ext := artifact.Format
	if ext == "" {
		ext = models.FormatPNG
	}
	name := fmt.Sprintf("cropped_image_%d.%s", time.Now().UnixMilli(), ext)
	path := filepath.Join(s.tempDir, name)

	if _, err := os.Stat(path); err == nil {
		name = fmt.Sprintf("cropped_image_%d_%s.%s", time.Now().UnixMilli(), uuid.New().String()[:8], ext)
		path = filepath.Join(s.tempDir, name)
	}

	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return path, nil
}

// RemoveTemp deletes a previously materialized artifact.
func (s *StorageService) RemoveTemp(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove artifact %s: %w", path, err)
	}
	return nil
}
