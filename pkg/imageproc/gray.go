package imageproc

import (
	"image"
	"image/color"
)

// Grayscale converts to 8-bit luminance with the ITU-R 601 weights used by
// most OCR tooling (0.299 R + 0.587 G + 0.114 B).
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B) + 500) / 1000
			dst.Pix[y*dst.Stride+x] = uint8(lum)
		}
	}
	return dst
}

// OtsuThreshold returns the threshold that maximises between-class variance
// of the grayscale histogram.
func OtsuThreshold(gray *image.Gray) uint8 {
	var hist [256]int
	b := gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := gray.Pix[(y-b.Min.Y)*gray.Stride:]
		for x := 0; x < b.Dx(); x++ {
			hist[row[x]]++
		}
	}

	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}

	var sum float64
	for i, n := range hist {
		sum += float64(i * n)
	}

	var (
		sumB, maxVar float64
		wB           int
		best         int
	)
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > maxVar {
			maxVar = between
			best = t
		}
	}
	return uint8(best)
}

// Binarize thresholds with Otsu. With invert set, pixels at or below the
// threshold become 255 so dark text is the foreground.
func Binarize(gray *image.Gray, invert bool) *image.Gray {
	t := OtsuThreshold(gray)
	b := gray.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := gray.Pix[y*gray.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < b.Dx(); x++ {
			above := src[x] > t
			if above != invert {
				out[x] = 255
			}
		}
	}
	return dst
}
