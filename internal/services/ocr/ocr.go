// Package ocr defines the interface to the external text-recognition
// engine. The crop service only forwards recognized text to its caller; it
// never interprets it.
package ocr

import "context"

// Extractor is the OCR collaborator: a black box that turns an encoded image
// artifact into text, or fails.
type Extractor interface {
	// ExtractText recognizes text in encoded image bytes. An empty string
	// with a nil error means the engine found nothing.
	ExtractText(ctx context.Context, imageData []byte) (string, error)

	// ExtractTextFromFile recognizes text in an image materialized on disk.
	ExtractTextFromFile(ctx context.Context, path string) (string, error)

	// Close releases any resources held by the engine.
	Close() error
}
