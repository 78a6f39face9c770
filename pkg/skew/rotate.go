package skew

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

const cubicA = -0.75

// Rotate turns img by angle degrees (counter-clockwise for positive angles)
// about its integer centre, keeping the canvas size. Bicubic interpolation
// is used and samples beyond the edge replicate the nearest border pixel.
func Rotate(img *image.NRGBA, angle float64) *image.NRGBA {
	if img.Bounds().Min != (image.Point{}) {
		img = imaging.Clone(img)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	sin, cos := math.Sincos(angle * math.Pi / 180)
	cx, cy := float64(w/2), float64(h/2)

	var wx, wy [4]float64
	for y := 0; y < h; y++ {
		dy := float64(y) - cy
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			sx := cos*dx - sin*dy + cx
			sy := sin*dx + cos*dy + cy

			x0 := int(math.Floor(sx))
			y0 := int(math.Floor(sy))
			cubicWeights(sx-float64(x0), &wx)
			cubicWeights(sy-float64(y0), &wy)

			var acc [4]float64
			for j := 0; j < 4; j++ {
				py := clamp(y0-1+j, h-1)
				row := img.Pix[py*img.Stride:]
				for i := 0; i < 4; i++ {
					px := clamp(x0-1+i, w-1)
					k := wx[i] * wy[j]
					p := row[px*4 : px*4+4]
					acc[0] += k * float64(p[0])
					acc[1] += k * float64(p[1])
					acc[2] += k * float64(p[2])
					acc[3] += k * float64(p[3])
				}
			}

			o := dst.Pix[y*dst.Stride+x*4 : y*dst.Stride+x*4+4]
			for c := 0; c < 4; c++ {
				o[c] = saturate(acc[c])
			}
		}
	}
	return dst
}

func cubicWeights(t float64, w *[4]float64) {
	w[0] = cubic(t + 1)
	w[1] = cubic(t)
	w[2] = cubic(1 - t)
	w[3] = cubic(2 - t)
}

func cubic(t float64) float64 {
	t = math.Abs(t)
	switch {
	case t <= 1:
		return ((cubicA+2)*t-(cubicA+3))*t*t + 1
	case t < 2:
		return ((cubicA*t-5*cubicA)*t+8*cubicA)*t - 4*cubicA
	default:
		return 0
	}
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

func saturate(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
