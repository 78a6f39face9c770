package skew

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{Limit: 90, Delta: 0})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = New(Options{Limit: -1, Delta: 1})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	for _, d := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = New(Options{Limit: 90, Delta: d})
		assert.ErrorIs(t, err, ErrInvalidOptions)
	}
}

func TestAngles_DefaultGrid(t *testing.T) {
	c, err := New(DefaultOptions())
	require.NoError(t, err)

	angles := c.Angles()
	require.Len(t, angles, 181)
	assert.Equal(t, -90.0, angles[0])
	assert.Equal(t, 0.0, angles[90])
	assert.Equal(t, 90.0, angles[180])
}

func TestEstimate_UniformImagePicksLowerLimit(t *testing.T) {
	c, err := New(Options{Limit: 10, Delta: 1, Workers: 4})
	require.NoError(t, err)

	for _, v := range []uint8{0, 1, 128, 255} {
		img := uniform(64, 48, v)
		assert.Equal(t, -10.0, c.Estimate(img), "value %d", v)
	}
}

func TestEstimate_HorizontalLines(t *testing.T) {
	c, err := New(Options{Limit: 20, Delta: 1, Workers: 2})
	require.NoError(t, err)

	// Lines must be long enough that a 1 degree turn moves their ends by
	// more than a pixel, or the neighbouring angles tie with zero.
	img := uniform(200, 200, 255)
	for y := 20; y < 180; y++ {
		if (y/4)%2 == 0 {
			for x := 20; x < 180; x++ {
				img.SetNRGBA(x, y, color.NRGBA{A: 255})
			}
		}
	}

	assert.Equal(t, 0.0, c.Estimate(img))
}

func TestEstimate_SlantedLines(t *testing.T) {
	c, err := New(Options{Limit: 30, Delta: 1, Workers: 4})
	require.NoError(t, err)

	img := uniform(160, 160, 255)
	slope := math.Tan(10 * math.Pi / 180)
	for k := 30; k < 130; k += 12 {
		for x := 20; x < 140; x++ {
			y0 := float64(k) + float64(x-80)*slope
			for dy := 0; dy < 3; dy++ {
				img.SetNRGBA(x, int(math.Round(y0))+dy, color.NRGBA{A: 255})
			}
		}
	}

	angle := c.Estimate(img)
	assert.InDelta(t, 10.0, angle, 1.0)
}

func TestEstimate_AngleIsOnGrid(t *testing.T) {
	opts := Options{Limit: 7.5, Delta: 2.5, Workers: 1}
	c, err := New(opts)
	require.NoError(t, err)

	img := uniform(40, 40, 255)
	for x := 5; x < 35; x++ {
		img.SetNRGBA(x, 20, color.NRGBA{A: 255})
		img.SetNRGBA(x, 10+x/4, color.NRGBA{A: 255})
	}

	angle := c.Estimate(img)
	k := (angle + opts.Limit) / opts.Delta
	assert.InDelta(t, math.Round(k), k, 1e-9)
	assert.GreaterOrEqual(t, angle, -opts.Limit)
	assert.LessOrEqual(t, angle, opts.Limit)
}

func TestScore_BlankMaskIsZero(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 20, 20))
	assert.Equal(t, 0.0, Score(mask, 13))
	assert.Len(t, Histogram(mask, 0), 20)
}

func TestRotate_ZeroAngleIsIdentity(t *testing.T) {
	img := uniform(9, 7, 200)
	img.SetNRGBA(3, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	out := Rotate(img, 0)
	assert.Equal(t, img.Pix, out.Pix)
}

func TestRotate_ReplicatesBorder(t *testing.T) {
	img := uniform(30, 20, 90)

	out := Rotate(img, 45)
	assert.Equal(t, img.Bounds(), out.Bounds())
	for _, p := range []image.Point{{0, 0}, {29, 0}, {0, 19}, {29, 19}} {
		assert.Equal(t, color.NRGBA{R: 90, G: 90, B: 90, A: 255}, out.NRGBAAt(p.X, p.Y))
	}
}

func TestCorrect_ReturnsSameSize(t *testing.T) {
	c, err := New(Options{Limit: 5, Delta: 1, Workers: 2})
	require.NoError(t, err)

	img := uniform(32, 24, 255)
	angle, out := c.Correct(img)
	assert.Equal(t, -5.0, angle)
	assert.Equal(t, image.Rect(0, 0, 32, 24), out.Bounds())
}

func uniform(w, h int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = v, v, v, 255
	}
	return img
}
