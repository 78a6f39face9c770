package ktpService

import (
	"KTPExtractor/internal/api/ktp"
	ktpRepository "KTPExtractor/internal/api/ktp/repository"
	"KTPExtractor/internal/entity"
	ktpPkg "KTPExtractor/pkg/ktp"
	"KTPExtractor/pkg/ocr"
	"KTPExtractor/pkg/redis"
	"KTPExtractor/pkg/s3"
	"KTPExtractor/pkg/skew"
	"KTPExtractor/pkg/utils"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Detector locates KTP field boxes on a preprocessed frame.
type Detector interface {
	DetectFields(ctx context.Context, frame []byte) ([]entity.RawDetection, error)
}

type Config struct {
	Skew           skew.Options
	Width          int
	Height         int
	BlurKernel     int
	ContrastFactor float64
	DefaultEngine  ocr.Engine
	FoldPolicy     ktpPkg.FoldPolicy
	CacheTTL       time.Duration
}

func DefaultConfig() Config {
	return Config{
		Skew:           skew.DefaultOptions(),
		Width:          640,
		Height:         480,
		BlurKernel:     3,
		ContrastFactor: 2,
		DefaultEngine:  ocr.Tesseract,
		FoldPolicy:     ktpPkg.FoldLastWrite,
		CacheTTL:       24 * time.Hour,
	}
}

type IKTPService interface {
	Extract(ctx context.Context, image []byte, engineName string) (*ktp.ExtractionResult, error)
	GetExtraction(ctx context.Context, id string) (entity.KTPExtraction, error)
	GetExtractionsByNIK(ctx context.Context, nik string) ([]entity.KTPExtraction, error)
}

type ktpService struct {
	log           *logrus.Logger
	cfg           Config
	corrector     *skew.Corrector
	detector      Detector
	recognizers   *ocr.Registry
	ktpRepository ktpRepository.Repository
	redis         redis.IRedis
	s3            s3.ItfS3
	utils         utils.IUtils
}

type Option func(*ktpService)

func WithRepository(r ktpRepository.Repository) Option {
	return func(s *ktpService) {
		s.ktpRepository = r
	}
}

func WithCache(r redis.IRedis) Option {
	return func(s *ktpService) {
		s.redis = r
	}
}

func WithArchive(store s3.ItfS3) Option {
	return func(s *ktpService) {
		s.s3 = store
	}
}

func NewKTPService(
	log *logrus.Logger,
	cfg Config,
	detector Detector,
	recognizers *ocr.Registry,
	utils utils.IUtils,
	opts ...Option,
) (IKTPService, error) {
	corrector, err := skew.New(cfg.Skew)
	if err != nil {
		return nil, err
	}

	s := &ktpService{
		log:         log,
		cfg:         cfg,
		corrector:   corrector,
		detector:    detector,
		recognizers: recognizers,
		utils:       utils,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}
