// Package skew estimates and removes the rotation of a photographed
// document using a projection-profile search over a fixed angle grid.
package skew

import (
	"errors"
	"image"
	"math"
	"runtime"

	"KTPExtractor/pkg/imageproc"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidOptions = errors.New("skew: limit must be >= 0 and delta > 0")

type Options struct {
	Limit   float64
	Delta   float64
	Workers int
}

func DefaultOptions() Options {
	return Options{
		Limit:   90,
		Delta:   1,
		Workers: runtime.GOMAXPROCS(0),
	}
}

type Corrector struct {
	opts   Options
	angles []float64
}

func New(opts Options) (*Corrector, error) {
	if opts.Delta <= 0 || math.IsNaN(opts.Delta) || math.IsInf(opts.Delta, 0) ||
		opts.Limit < 0 || math.IsNaN(opts.Limit) || math.IsInf(opts.Limit, 0) {
		return nil, ErrInvalidOptions
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	n := int(math.Floor(2*opts.Limit/opts.Delta+1e-9)) + 1
	angles := make([]float64, n)
	for k := range angles {
		angles[k] = -opts.Limit + float64(k)*opts.Delta
	}

	return &Corrector{opts: opts, angles: angles}, nil
}

// Angles returns the candidate grid, ascending from -Limit.
func (c *Corrector) Angles() []float64 {
	out := make([]float64, len(c.angles))
	copy(out, c.angles)
	return out
}

// Estimate returns the grid angle whose rotation best aligns the text rows
// of img. Ties go to the earliest angle in the grid, so a uniform image
// always yields -Limit.
func (c *Corrector) Estimate(img image.Image) float64 {
	mask := imageproc.Binarize(imageproc.Grayscale(img), true)
	if flat(mask) {
		// Nothing to align. Otsu splits a single-level image arbitrarily.
		return c.angles[0]
	}

	scores := make([]float64, len(c.angles))
	var g errgroup.Group
	g.SetLimit(c.opts.Workers)
	for i, angle := range c.angles {
		i, angle := i, angle
		g.Go(func() error {
			scores[i] = Score(mask, angle)
			return nil
		})
	}
	_ = g.Wait()

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return c.angles[best]
}

func flat(mask *image.Gray) bool {
	b := mask.Bounds()
	if b.Empty() {
		return true
	}
	first := mask.Pix[mask.PixOffset(b.Min.X, b.Min.Y)]
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := mask.Pix[mask.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x] != first {
				return false
			}
		}
	}
	return true
}

// Correct estimates the skew of img and rotates the original, unbinarized
// image back by that angle.
func (c *Corrector) Correct(img image.Image) (float64, *image.NRGBA) {
	angle := c.Estimate(img)
	return angle, Rotate(imaging.Clone(img), angle)
}
