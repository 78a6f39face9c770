package middleware

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	APIKeyHeader = "X-API-KEY"
	APIKeyEnv    = "API_KEY"
)

type apiKeyMiddleware struct {
	key []byte
}

func newAPIKeyMiddleware(logger *logrus.Logger) *apiKeyMiddleware {
	key := os.Getenv(APIKeyEnv)
	if key == "" {
		logger.Warn("API_KEY is not set, every protected request will be rejected")
	}
	return &apiKeyMiddleware{key: []byte(key)}
}

func (a *apiKeyMiddleware) valid(provided string) bool {
	if len(a.key) == 0 || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), a.key) == 1
}

func (m *middleware) NewAPIKeyMiddleware(ctx *fiber.Ctx) error {
	if !m.apiKey.valid(ctx.Get(APIKeyHeader)) {
		m.log.WithFields(logrus.Fields{
			"request_id": m.GetRequestID(ctx),
			"path":       ctx.Path(),
			"client_ip":  ctx.IP(),
		}).Warn("Rejected request without a valid API key")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   true,
			"message": "API key required",
			"data":    fiber.Map{},
		})
	}

	return ctx.Next()
}
