package config

import (
	"io"
	"testing"
	"time"

	ktpPkg "KTPExtractor/pkg/ktp"
	"KTPExtractor/pkg/ocr"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestNewPipelineConfigDefaults(t *testing.T) {
	cfg := NewPipelineConfig(quietLogger())

	assert.Equal(t, 90.0, cfg.Skew.Limit)
	assert.Equal(t, 1.0, cfg.Skew.Delta)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
	assert.Equal(t, 3, cfg.BlurKernel)
	assert.Equal(t, 2.0, cfg.ContrastFactor)
	assert.Equal(t, ocr.Tesseract, cfg.DefaultEngine)
	assert.Equal(t, ktpPkg.FoldLastWrite, cfg.FoldPolicy)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
}

func TestNewPipelineConfigOverrides(t *testing.T) {
	t.Setenv("KTP_SKEW_LIMIT", "45")
	t.Setenv("KTP_SKEW_DELTA", "0.5")
	t.Setenv("KTP_DEFAULT_ENGINE", "EasyOCR")
	t.Setenv("KTP_FOLD_POLICY", "highest_confidence")
	t.Setenv("KTP_CACHE_TTL", "10m")
	t.Setenv("KTP_IMAGE_WIDTH", "not-a-number")

	cfg := NewPipelineConfig(quietLogger())

	assert.Equal(t, 45.0, cfg.Skew.Limit)
	assert.Equal(t, 0.5, cfg.Skew.Delta)
	assert.Equal(t, ocr.EasyOCR, cfg.DefaultEngine)
	assert.Equal(t, ktpPkg.FoldHighestConfidence, cfg.FoldPolicy)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 640, cfg.Width)
}

func TestNewPipelineConfigIgnoresUnknownEngine(t *testing.T) {
	t.Setenv("KTP_DEFAULT_ENGINE", "paddle")

	cfg := NewPipelineConfig(quietLogger())
	assert.Equal(t, ocr.Tesseract, cfg.DefaultEngine)
}
