package ktpHandler

import (
	ktpService "KTPExtractor/internal/api/ktp/service"
	"KTPExtractor/internal/middleware"
	"KTPExtractor/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"time"
)

const (
	extractTimeout = 60 * time.Second
	lookupTimeout  = 10 * time.Second
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
)

type KTPHandler struct {
	log        *logrus.Logger
	validator  *validator.Validate
	middleware middleware.Middleware
	ktpService ktpService.IKTPService
	utils      utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ks ktpService.IKTPService,
	utils utils.IUtils,
) *KTPHandler {
	return &KTPHandler{
		log:        log,
		validator:  validator,
		middleware: middleware,
		ktpService: ks,
		utils:      utils,
	}
}

func (h *KTPHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("ocr_choice", c.Query("ocr_choice"))
			c.Locals("request_id", h.middleware.GetRequestID(c))
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	ktp := srv.Group("/ktp")
	ktp.Post("/extract", h.middleware.NewRateLimiter, h.middleware.NewAPIKeyMiddleware, h.ExtractKTP)
	ktp.Get("/extractions", h.middleware.NewAPIKeyMiddleware, h.GetExtractionsByNIK)
	ktp.Get("/extractions/:id", h.middleware.NewAPIKeyMiddleware, h.GetExtraction)

	ktp.Use("/ws", h.middleware.NewAPIKeyMiddleware, wsMiddleware)
	ktp.Get("/ws", websocket.New(h.handleKTPWebSocket))
}
