package models

import "time"

// CropJob is a queued crop request for an image fetched by URL.
type CropJob struct {
	ID        string             `json:"id"`
	ImageURL  string             `json:"image_url"`
	Request   GestureCropRequest `json:"request"`
	Recognize bool               `json:"recognize,omitempty"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	Result    *CropResult        `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
