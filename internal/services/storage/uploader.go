package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/hoangvu/gesture-crop/internal/models"
	"github.com/hoangvu/gesture-crop/pkg/utils"
)

// Upload pushes an encoded artifact to the configured bucket and returns its
// public URL.
func (s *StorageService) Upload(ctx context.Context, artifact *models.CroppedArtifact, filename string) (string, error) {
	if s.sbClient == nil {
		return "", fmt.Errorf("storage backend not configured")
	}

	key := utils.GenerateStorageKey(filename)
	_, err := s.sbClient.UploadFile(s.bucket, key, bytes.NewReader(artifact.Data))
	if err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := s.sbClient.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}

// Delete removes an uploaded artifact from the bucket.
func (s *StorageService) Delete(ctx context.Context, path string) error {
	if s.sbClient == nil {
		return nil
	}
	_, err := s.sbClient.RemoveFile(s.bucket, []string{path})
	return err
}
