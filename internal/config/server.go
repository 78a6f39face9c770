package config

import (
	"KTPExtractor/database/postgres"
	"KTPExtractor/internal/api/ktp"
	ktpHandler "KTPExtractor/internal/api/ktp/handler"
	ktpRepository "KTPExtractor/internal/api/ktp/repository"
	ktpService "KTPExtractor/internal/api/ktp/service"
	"KTPExtractor/internal/middleware"
	"KTPExtractor/pkg/ocr"
	"KTPExtractor/pkg/redis"
	"KTPExtractor/pkg/s3"
	"KTPExtractor/pkg/utils"
	websocketPkg "KTPExtractor/pkg/websocket"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	handlers    []handler
	redisServer redis.IRedis
	aiWebsocket websocketPkg.IWebsocket
	recognizers *ocr.Registry
	pipeline    *ktpService.Config
	s3Client    s3.ItfS3
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.aiWebsocket == nil {
		return nil, fmt.Errorf("field detector websocket client is required")
	}
	if server.middleware == nil {
		server.middleware = middleware.New(server.log)
	}
	if server.validator == nil {
		server.validator = NewValidator()
	}
	if server.utils == nil {
		server.utils = utils.New()
	}
	if server.recognizers == nil {
		server.recognizers = ocr.NewRegistry(ocr.NewTesseract(), ocr.NewEasyOCR(server.aiWebsocket))
	}
	if server.pipeline == nil {
		cfg := NewPipelineConfig(server.log)
		server.pipeline = &cfg
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithDatabase enables extraction history. Without DB_HOST the server runs without it.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		if os.Getenv("DB_HOST") == "" {
			if s.log != nil {
				s.log.Warn("DB_HOST is not set, extraction history is disabled")
			}
			return nil
		}

		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithWebSocket(webSocket websocketPkg.IWebsocket) ServerOption {
	return func(s *Server) error {
		s.aiWebsocket = webSocket
		return nil
	}
}

func WithRecognizers(registry *ocr.Registry) ServerOption {
	return func(s *Server) error {
		s.recognizers = registry
		return nil
	}
}

func WithPipelineConfig(cfg ktpService.Config) ServerOption {
	return func(s *Server) error {
		s.pipeline = &cfg
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func (s *Server) RegisterHandler() error {
	var opts []ktpService.Option
	if s.db != nil {
		opts = append(opts, ktpService.WithRepository(ktpRepository.New(s.db, s.log)))
	}
	if s.redisServer != nil {
		opts = append(opts, ktpService.WithCache(s.redisServer))
	}
	if s.s3Client != nil {
		opts = append(opts, ktpService.WithArchive(s.s3Client))
	}

	ktpServices, err := ktpService.NewKTPService(s.log, *s.pipeline, s.aiWebsocket, s.recognizers, s.utils, opts...)
	if err != nil {
		return fmt.Errorf("failed to create KTP service: %w", err)
	}
	ktpHandlers := ktpHandler.New(s.log, s.validator, s.middleware, ktpServices, s.utils)

	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	s.setupHealthCheck()
	s.engine.Post("/", s.middleware.NewRateLimiter, s.middleware.NewAPIKeyMiddleware, ktpHandlers.ExtractKTP)
	s.handlers = append(s.handlers, ktpHandlers)

	s.log.WithFields(logrus.Fields{
		"skew_limit":     s.pipeline.Skew.Limit,
		"skew_delta":     s.pipeline.Skew.Delta,
		"default_engine": s.pipeline.DefaultEngine.String(),
		"fold_policy":    s.pipeline.FoldPolicy.String(),
		"history":        s.db != nil,
	}).Info("KTP pipeline configured")

	return nil
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) Shutdown() {
	if err := s.engine.ShutdownWithTimeout(10 * time.Second); err != nil {
		s.log.Errorf("Error shutting down HTTP server: %v", err)
	}
	s.aiWebsocket.CloseConnections()
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.log.Errorf("Error closing database: %v", err)
		}
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(ktp.Response{Message: ktp.MessageReady, Data: fiber.Map{}})
	})
	s.engine.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(ktp.Response{Message: ktp.MessageHealthy, Data: fiber.Map{}})
	})
}
