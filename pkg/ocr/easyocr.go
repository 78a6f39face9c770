package ocr

import (
	"context"
	"fmt"
	"image"
	"strings"

	"KTPExtractor/pkg/imageproc"
)

// TextReader is the remote EasyOCR service: it receives an encoded crop and
// returns the text fragments it found, in reading order.
type TextReader interface {
	ReadText(ctx context.Context, frame []byte) ([]string, error)
}

type easyOCRRecognizer struct {
	reader TextReader
}

func NewEasyOCR(reader TextReader) Recognizer {
	return &easyOCRRecognizer{reader: reader}
}

func (e *easyOCRRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	data, err := imageproc.EncodePNG(img)
	if err != nil {
		return "", fmt.Errorf("encode crop: %w", err)
	}

	fragments, err := e.reader.ReadText(ctx, data)
	if err != nil {
		return "", fmt.Errorf("easyocr: %w", err)
	}
	return CleanText(strings.Join(fragments, " ")), nil
}
