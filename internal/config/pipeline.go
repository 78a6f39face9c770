package config

import (
	ktpService "KTPExtractor/internal/api/ktp/service"
	ktpPkg "KTPExtractor/pkg/ktp"
	"KTPExtractor/pkg/ocr"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// NewPipelineConfig starts from the service defaults and applies KTP_* overrides.
// Malformed values are logged and ignored.
func NewPipelineConfig(logger *logrus.Logger) ktpService.Config {
	cfg := ktpService.DefaultConfig()

	cfg.Skew.Limit = envFloat(logger, "KTP_SKEW_LIMIT", cfg.Skew.Limit)
	cfg.Skew.Delta = envFloat(logger, "KTP_SKEW_DELTA", cfg.Skew.Delta)
	cfg.Skew.Workers = envInt(logger, "KTP_SKEW_WORKERS", cfg.Skew.Workers)
	cfg.Width = envInt(logger, "KTP_IMAGE_WIDTH", cfg.Width)
	cfg.Height = envInt(logger, "KTP_IMAGE_HEIGHT", cfg.Height)
	cfg.BlurKernel = envInt(logger, "KTP_BLUR_KERNEL", cfg.BlurKernel)
	cfg.ContrastFactor = envFloat(logger, "KTP_CONTRAST_FACTOR", cfg.ContrastFactor)

	if v := os.Getenv("KTP_DEFAULT_ENGINE"); v != "" {
		engine, err := ocr.ParseEngine(v)
		if err != nil {
			logger.Warnf("Ignoring KTP_DEFAULT_ENGINE=%q: %v", v, err)
		} else {
			cfg.DefaultEngine = engine
		}
	}

	if v := os.Getenv("KTP_FOLD_POLICY"); v != "" {
		cfg.FoldPolicy = ktpPkg.ParseFoldPolicy(v)
	}

	if v := os.Getenv("KTP_CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			logger.Warnf("Ignoring KTP_CACHE_TTL=%q: %v", v, err)
		} else {
			cfg.CacheTTL = ttl
		}
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		logger.Warnf("Invalid working size %dx%d, falling back to 640x480", cfg.Width, cfg.Height)
		cfg.Width, cfg.Height = 640, 480
	}

	return cfg
}

func envFloat(logger *logrus.Logger, key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logger.Warnf("Ignoring %s=%q: %v", key, v, err)
		return def
	}
	return f
}

func envInt(logger *logrus.Logger, key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warnf("Ignoring %s=%q: %v", key, v, err)
		return def
	}
	return n
}
