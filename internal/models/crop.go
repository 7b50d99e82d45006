package models

// GestureCropRequest is the finalized gesture handed over by the UI layer:
// the drawn path in display coordinates, the brush stroke width, the layout
// size of the viewport the image was shown in, and the fit policy that was
// used to display it.
type GestureCropRequest struct {
	Path        Path      `json:"path" binding:"required"`
	StrokeWidth float64   `json:"stroke_width" binding:"min=0"`
	Display     Size      `json:"display" binding:"required"`
	Policy      FitPolicy `json:"policy"`
	Format      string    `json:"format" binding:"omitempty,oneof=png jpg jpeg"`
	Quality     int       `json:"quality" binding:"omitempty,min=1,max=100"`
	Upload      bool      `json:"upload,omitempty"`
}

// BatchCropRequest carries several gestures drawn against the same image.
type BatchCropRequest struct {
	Gestures []GestureCropRequest `json:"gestures" binding:"required,min=1"`
}

const (
	FormatJPEG = "jpeg"
	FormatJPG  = "jpg"
	FormatPNG  = "png"
)
