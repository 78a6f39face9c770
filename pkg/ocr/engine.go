// Package ocr turns cropped field images into text using one of two
// interchangeable recognition backends.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
)

var ErrUnsupportedEngine = errors.New("unsupported OCR engine choice")

type Engine int

const (
	Tesseract Engine = iota + 1
	EasyOCR
)

// ParseEngine validates the caller-facing engine name. Names are matched
// case-insensitively.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "pytesseract":
		return Tesseract, nil
	case "easyocr":
		return EasyOCR, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedEngine, name)
	}
}

func (e Engine) String() string {
	switch e {
	case Tesseract:
		return "pytesseract"
	case EasyOCR:
		return "easyocr"
	default:
		return "unknown"
	}
}

type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

type Registry struct {
	recognizers map[Engine]Recognizer
}

func NewRegistry(tesseract, easyOCR Recognizer) *Registry {
	return &Registry{
		recognizers: map[Engine]Recognizer{
			Tesseract: tesseract,
			EasyOCR:   easyOCR,
		},
	}
}

func (r *Registry) For(engine Engine) (Recognizer, error) {
	rec, ok := r.recognizers[engine]
	if !ok || rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEngine, engine)
	}
	return rec, nil
}
