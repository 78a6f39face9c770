package ocr

import (
	"context"
	"fmt"
	"image"
	"os"
	"strconv"

	"KTPExtractor/pkg/imageproc"
	"github.com/otiai10/gosseract/v2"
)

type tesseractRecognizer struct {
	language string
	psm      gosseract.PageSegMode
}

func NewTesseract() Recognizer {
	lang := os.Getenv("TESSERACT_LANG")
	if lang == "" {
		lang = "ind"
	}

	psm := gosseract.PSM_SINGLE_BLOCK
	if v, err := strconv.Atoi(os.Getenv("TESSERACT_PSM")); err == nil {
		psm = gosseract.PageSegMode(v)
	}

	return &tesseractRecognizer{language: lang, psm: psm}
}

// Recognize doubles the crop, binarizes it with Otsu and hands it to
// Tesseract. A client is created per call because gosseract clients are
// not safe for concurrent use.
func (t *tesseractRecognizer) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	bin := imageproc.Binarize(imageproc.Grayscale(imageproc.Upscale(img, 2)), false)
	data, err := imageproc.EncodePNG(bin)
	if err != nil {
		return "", fmt.Errorf("encode crop: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("set tesseract language: %w", err)
	}
	if err := client.SetPageSegMode(t.psm); err != nil {
		return "", fmt.Errorf("set tesseract page segmentation: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set tesseract image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return CleanText(text), nil
}
