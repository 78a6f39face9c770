// Package imageproc holds the image preparation steps that surround skew
// correction: decoding, resizing, filtering and cropping field regions.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrEmptyImage = errors.New("image has no pixels")

// PIL's SHARPEN filter.
var sharpenKernel = [9]float64{
	-2, -2, -2,
	-2, 32, -2,
	-2, -2, -2,
}

// OpenCV's fixed 3x3 Gaussian.
var gaussian3Kernel = [9]float64{
	1, 2, 1,
	2, 4, 2,
	1, 2, 1,
}

func Decode(r io.Reader) (*image.NRGBA, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return imaging.Clone(img), nil
}

func DecodeBytes(data []byte) (*image.NRGBA, error) {
	return Decode(bytes.NewReader(data))
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Resize(img image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(img, width, height, imaging.Linear)
}

// GaussianBlur smooths with a square kernel of the given odd size. Size 3
// uses the exact binomial kernel; larger sizes derive sigma the way OpenCV
// does when sigma is left at zero.
func GaussianBlur(img image.Image, ksize int) *image.NRGBA {
	switch {
	case ksize <= 1:
		return imaging.Clone(img)
	case ksize == 3:
		return imaging.Convolve3x3(img, gaussian3Kernel, &imaging.ConvolveOptions{Normalize: true})
	default:
		sigma := 0.3*(float64(ksize-1)*0.5-1) + 0.8
		return imaging.Blur(img, sigma)
	}
}

func Sharpen(img image.Image) *image.NRGBA {
	return imaging.Convolve3x3(img, sharpenKernel, &imaging.ConvolveOptions{Normalize: true})
}

// Contrast scales each channel away from the mean luminance by factor,
// matching PIL's ImageEnhance.Contrast.
func Contrast(img image.Image, factor float64) *image.NRGBA {
	mean := math.Floor(meanLuminance(img) + 0.5)
	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: clampByte(mean + factor*(float64(c.R)-mean)),
			G: clampByte(mean + factor*(float64(c.G)-mean)),
			B: clampByte(mean + factor*(float64(c.B)-mean)),
			A: c.A,
		}
	})
}

// Crop clips the box to the image bounds before cutting.
func Crop(img image.Image, box image.Rectangle) (*image.NRGBA, error) {
	box = box.Canon().Intersect(img.Bounds())
	if box.Empty() {
		return nil, ErrEmptyImage
	}
	return imaging.Crop(img, box), nil
}

func Upscale(img image.Image, factor int) *image.NRGBA {
	b := img.Bounds()
	return imaging.Resize(img, b.Dx()*factor, b.Dy()*factor, imaging.CatmullRom)
}

func meanLuminance(img image.Image) float64 {
	gray := Grayscale(img)
	if len(gray.Pix) == 0 {
		return 0
	}
	var sum float64
	for _, v := range gray.Pix {
		sum += float64(v)
	}
	return sum / float64(len(gray.Pix))
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
