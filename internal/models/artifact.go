package models

import "time"

// CroppedArtifact is the final output of a crop run: the encoded bytes plus
// the pixel dimensions of the cropped region. Ownership passes to the caller.
type CroppedArtifact struct {
	Data   []byte `json:"-"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ContentType returns the MIME type for the artifact's encoded format.
func (a *CroppedArtifact) ContentType() string {
	switch a.Format {
	case FormatJPEG, FormatJPG:
		return "image/jpeg"
	default:
		return "image/png"
	}
}

// CropResult is the API-facing summary of a finished crop, optionally with
// the storage URL of the uploaded artifact and the recognized text.
type CropResult struct {
	ID          string    `json:"id"`
	Format      string    `json:"format"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	FileSize    int64     `json:"file_size"`
	URL         string    `json:"url,omitempty"`
	Text        string    `json:"text,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}
