package skew

import (
	"image"
	"math"
)

// Histogram rotates mask by angle degrees about its centre, without
// resizing, and sums the foreground per output row. Samples falling outside
// the source count as background and nearest-neighbour sampling is used.
func Histogram(mask *image.Gray, angle float64) []float64 {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	hist := make([]float64, h)
	if w == 0 || h == 0 {
		return hist
	}

	sin, cos := math.Sincos(angle * math.Pi / 180)
	cx, cy := float64(w-1)/2, float64(h-1)/2

	for y := 0; y < h; y++ {
		dy := float64(y) - cy
		var sum float64
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			sx := int(math.Floor(cos*dx - sin*dy + cx + 0.5))
			sy := int(math.Floor(sin*dx + cos*dy + cy + 0.5))
			if sx < 0 || sy < 0 || sx >= w || sy >= h {
				continue
			}
			sum += float64(mask.Pix[mask.PixOffset(b.Min.X+sx, b.Min.Y+sy)])
		}
		hist[y] = sum
	}
	return hist
}

// Score is the sum of squared differences between consecutive bins of the
// horizontal projection histogram. It peaks when text lines are horizontal.
func Score(mask *image.Gray, angle float64) float64 {
	hist := Histogram(mask, angle)
	var score float64
	for i := 1; i < len(hist); i++ {
		d := hist[i] - hist[i-1]
		score += d * d
	}
	return score
}
