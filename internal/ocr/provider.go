// Package ocr defines the boundary to the text-recognition provider.
// The core only ever consumes the recognized text, never the image.
package ocr

import "context"

// Recognizer turns a receipt image into raw text
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, mimeType string) (string, error)
}

// StaticRecognizer returns a fixed text for every image. Used in tests
// and in deployments without an OCR backend, where clients paste
// recognized text directly.
type StaticRecognizer struct {
	Text string
	Err  error
}

// Ensure StaticRecognizer implements Recognizer
var _ Recognizer = (*StaticRecognizer)(nil)

// Recognize returns the configured text or error
func (r *StaticRecognizer) Recognize(ctx context.Context, image []byte, mimeType string) (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}
