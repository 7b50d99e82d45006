package processor

import (
	"fmt"
	"net/http"

	"github.com/hoangvu/gesture-crop/pkg/utils"
)

// ValidateUpload rejects oversized payloads and byte streams whose sniffed
// content type is not an image before any decode work is spent on them.
func (e *CropEngine) ValidateUpload(data []byte, maxSize int64) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty payload", ErrDecode)
	}
	if int64(len(data)) > maxSize {
		return fmt.Errorf("file size %d exceeds maximum allowed size %d", len(data), maxSize)
	}

	contentType := http.DetectContentType(data)
	if !utils.IsValidImageType(contentType) {
		return fmt.Errorf("%w: unsupported content type %s", ErrDecode, contentType)
	}
	return nil
}
