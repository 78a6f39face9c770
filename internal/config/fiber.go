package config

import (
	"KTPExtractor/internal/api/ktp"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(logger *logrus.Logger) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:           "KTP Extractor",
			BodyLimit:         16 * 1024 * 1024,
			DisableKeepalive:  false,
			StrictRouting:     true,
			CaseSensitive:     true,
			EnablePrintRoutes: true,
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
			ReadTimeout:       90 * time.Second,
			WriteTimeout:      90 * time.Second,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				code := fiber.StatusInternalServerError
				var fe *fiber.Error
				if errors.As(err, &fe) {
					code = fe.Code
				}
				logger.WithFields(logrus.Fields{
					"path":  c.Path(),
					"code":  code,
					"error": err.Error(),
				}).Warn("Unhandled fiber error")
				return c.Status(code).JSON(ktp.Failure(err.Error()))
			},
		})

	return app
}
