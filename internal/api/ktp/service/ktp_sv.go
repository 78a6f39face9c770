package ktpService

import (
	"KTPExtractor/internal/api/ktp"
	ktpRepository "KTPExtractor/internal/api/ktp/repository"
	"KTPExtractor/internal/entity"
	contextPkg "KTPExtractor/pkg/context"
	"KTPExtractor/pkg/imageproc"
	ktpPkg "KTPExtractor/pkg/ktp"
	"KTPExtractor/pkg/log"
	"KTPExtractor/pkg/ocr"
	"KTPExtractor/pkg/redis"
	"KTPExtractor/pkg/response"
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"runtime/debug"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type pipelineOutput struct {
	record     entity.NormalizedRecord
	elapsed    float64
	skewAngle  float64
	detections int
	corrected  image.Image
}

func (s *ktpService) Extract(ctx context.Context, data []byte, engineName string) (*ktp.ExtractionResult, error) {
	engine, err := s.resolveEngine(engineName)
	if err != nil {
		return nil, err
	}

	recognizer, err := s.recognizers.For(engine)
	if err != nil {
		return nil, response.Wrap(ktp.ErrUnsupportedEngine, err)
	}

	digest := s.utils.Digest(data)
	if cached, ok := s.lookupCache(ctx, engine, digest); ok {
		return cached, nil
	}

	out, err := s.runPipeline(ctx, data, recognizer)
	if err != nil {
		s.logger(ctx).WithFields(logrus.Fields{
			"engine": engine.String(),
			"error":  err.Error(),
		}).Error("KTP extraction failed")
		return nil, err
	}

	s.logger(ctx).WithFields(logrus.Fields{
		"engine":       engine.String(),
		"skew_angle":   out.skewAngle,
		"detections":   out.detections,
		"time_elapsed": out.elapsed,
	}).Info("KTP extraction completed")

	s.storeCache(ctx, engine, digest, out)
	s.persist(ctx, engine, digest, out)

	return &ktp.ExtractionResult{
		Data: ktp.ExtractionData{
			NormalizedRecord: out.record,
			TimeElapsed:      out.elapsed,
		},
		SkewAngle: out.skewAngle,
		Engine:    engine.String(),
	}, nil
}

func (s *ktpService) resolveEngine(name string) (ocr.Engine, error) {
	if strings.TrimSpace(name) == "" {
		return s.cfg.DefaultEngine, nil
	}
	engine, err := ocr.ParseEngine(name)
	if err != nil {
		return 0, ktp.ErrUnsupportedEngine
	}
	return engine, nil
}

// runPipeline converts any panic raised while processing into ErrProcessingFailed.
func (s *ktpService) runPipeline(ctx context.Context, data []byte, recognizer ocr.Recognizer) (out pipelineOutput, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger(ctx).WithFields(logrus.Fields{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Recovered panic in KTP pipeline")
			out = pipelineOutput{}
			err = response.Wrap(ktp.ErrProcessingFailed, r)
		}
	}()

	img, err := imageproc.DecodeBytes(data)
	if err != nil {
		return pipelineOutput{}, response.Wrap(ktp.ErrInvalidImage, err)
	}

	resized := imageproc.Resize(img, s.cfg.Width, s.cfg.Height)
	blurred := imageproc.GaussianBlur(resized, s.cfg.BlurKernel)
	angle, corrected := s.corrector.Correct(blurred)
	enhanced := imageproc.Contrast(imageproc.Sharpen(corrected), s.cfg.ContrastFactor)

	frame, err := imageproc.EncodePNG(enhanced)
	if err != nil {
		return pipelineOutput{}, response.Wrap(ktp.ErrProcessingFailed, err)
	}

	detections, err := s.detector.DetectFields(ctx, frame)
	if err != nil {
		return pipelineOutput{}, response.Wrap(ktp.ErrDetectorUnavailable, err)
	}

	s.logger(ctx).WithFields(logrus.Fields{
		"skew_angle": angle,
		"detections": len(detections),
	}).Debug("KTP fields detected")

	start := time.Now()
	fields := ktpPkg.NewFieldMap(s.cfg.FoldPolicy)
	for _, d := range detections {
		if err := ctx.Err(); err != nil {
			return pipelineOutput{}, response.Wrap(ktp.ErrProcessingFailed, err)
		}

		class, ok := entity.ParseFieldClass(string(d.Class))
		if !ok {
			s.logger(ctx).WithFields(logrus.Fields{
				"class": d.Class,
			}).Warn("Skipping detection with unknown field class")
			continue
		}

		crop, err := imageproc.Crop(enhanced, boxRect(d.Box))
		if err != nil {
			s.logger(ctx).WithFields(logrus.Fields{
				"class": class,
			}).Warn("Skipping detection with empty crop")
			continue
		}

		text, err := recognizer.Recognize(ctx, crop)
		if err != nil {
			return pipelineOutput{}, response.Wrap(ktp.ErrProcessingFailed, fmt.Errorf("recognize %s: %w", class, err))
		}

		s.logger(ctx).WithFields(logrus.Fields{
			"class":      class,
			"confidence": d.Confidence,
			"chars":      len([]rune(text)),
		}).Debug("Routed detection to field")

		fields.Apply(entity.FieldText{Class: class, Text: text, Confidence: d.Confidence})
	}

	return pipelineOutput{
		record:     ktpPkg.BuildRecord(fields),
		elapsed:    roundMillis(time.Since(start).Seconds()),
		skewAngle:  angle,
		detections: len(detections),
		corrected:  corrected,
	}, nil
}

func (s *ktpService) lookupCache(ctx context.Context, engine ocr.Engine, digest string) (*ktp.ExtractionResult, bool) {
	if s.redis == nil {
		return nil, false
	}

	cached, err := s.redis.GetResult(ctx, engine.String(), digest)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger(ctx).WithFields(logrus.Fields{
				"error": err.Error(),
			}).Warn("Failed to read cached KTP result")
		}
		return nil, false
	}

	return &ktp.ExtractionResult{
		Data: ktp.ExtractionData{
			NormalizedRecord: cached.Record,
			TimeElapsed:      cached.TimeElapsed,
		},
		SkewAngle: cached.SkewAngle,
		Engine:    engine.String(),
		Cached:    true,
	}, true
}

func (s *ktpService) storeCache(ctx context.Context, engine ocr.Engine, digest string, out pipelineOutput) {
	if s.redis == nil || s.cfg.CacheTTL <= 0 {
		return
	}

	err := s.redis.SetResult(ctx, engine.String(), digest, redis.CachedResult{
		Record:      out.record,
		SkewAngle:   out.skewAngle,
		TimeElapsed: out.elapsed,
	}, s.cfg.CacheTTL)
	if err != nil {
		s.logger(ctx).WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Failed to cache KTP result")
	}
}

// persist archives the corrected image when an archive is configured and
// records the extraction when a repository is configured. Failures are logged
// and never fail the request.
func (s *ktpService) persist(ctx context.Context, engine ocr.Engine, digest string, out pipelineOutput) {
	archiving := s.s3 != nil && s.s3.Enabled()
	if s.ktpRepository == nil && !archiving {
		return
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		s.logger(ctx).WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Failed to generate extraction ID")
		return
	}

	imageURL := s.archive(ctx, id, digest, out.corrected)
	if s.ktpRepository == nil {
		return
	}

	client, err := s.ktpRepository.NewClient(true)
	if err != nil {
		s.logger(ctx).WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Failed to open repository transaction")
		return
	}

	err = client.Extraction.CreateExtraction(ctx, entity.KTPExtraction{
		ID:          id,
		RequestID:   contextPkg.GetRequestID(ctx),
		Engine:      engine.String(),
		SkewAngle:   out.skewAngle,
		Record:      out.record,
		TimeElapsed: out.elapsed,
		ImageURL:    imageURL,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		s.logger(ctx).WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Failed to store KTP extraction")
		if rbErr := client.Rollback(); rbErr != nil {
			s.logger(ctx).WithFields(logrus.Fields{
				"error": rbErr.Error(),
			}).Warn("Failed to roll back KTP extraction")
		}
		return
	}

	if err := client.Commit(); err != nil {
		s.logger(ctx).WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Failed to commit KTP extraction")
	}
}

func (s *ktpService) archive(ctx context.Context, id, digest string, img image.Image) string {
	if s.s3 == nil || !s.s3.Enabled() || img == nil {
		return ""
	}

	data, err := imageproc.EncodePNG(img)
	if err != nil {
		s.logger(ctx).WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Failed to encode corrected image")
		return ""
	}

	url, err := s.s3.UploadImage(ctx, fmt.Sprintf("%s-%s.png", id, digest[:12]), data, "image/png")
	if err != nil {
		s.logger(ctx).WithFields(logrus.Fields{
			"error": err.Error(),
		}).Warn("Failed to archive corrected image")
		return ""
	}

	return url
}

func (s *ktpService) GetExtraction(ctx context.Context, id string) (entity.KTPExtraction, error) {
	if s.ktpRepository == nil {
		return entity.KTPExtraction{}, ktp.ErrHistoryUnavailable
	}

	client, err := s.ktpRepository.NewClient(false)
	if err != nil {
		return entity.KTPExtraction{}, err
	}

	extraction, err := client.Extraction.GetExtractionByID(ctx, id)
	if err != nil {
		if errors.Is(err, ktpRepository.ErrExtractionNotFound) {
			return entity.KTPExtraction{}, ktp.ErrExtractionNotFound
		}
		return entity.KTPExtraction{}, err
	}

	return extraction, nil
}

func (s *ktpService) GetExtractionsByNIK(ctx context.Context, nik string) ([]entity.KTPExtraction, error) {
	if s.ktpRepository == nil {
		return nil, ktp.ErrHistoryUnavailable
	}

	client, err := s.ktpRepository.NewClient(false)
	if err != nil {
		return nil, err
	}

	return client.Extraction.GetExtractionsByNIK(ctx, nik)
}

// logger scopes the service logger to the request id carried by ctx.
func (s *ktpService) logger(ctx context.Context) *logrus.Entry {
	entry := log.WithRequestID(ctx)
	entry.Logger = s.log
	return entry
}

func boxRect(b entity.BoundingBox) image.Rectangle {
	return image.Rect(int(b.X1), int(b.Y1), int(b.X2), int(b.Y2))
}

func roundMillis(seconds float64) float64 {
	return math.Round(seconds*1000) / 1000
}
