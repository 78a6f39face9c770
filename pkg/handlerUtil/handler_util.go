package handlerUtil

import (
	"KTPExtractor/internal/api/ktp"
	"KTPExtractor/pkg/log"
	"KTPExtractor/pkg/response"
	"KTPExtractor/pkg/utils"
	"errors"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	var respErr *response.Error
	if errors.As(err, &respErr) {
		fields := log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"code":       respErr.Code,
			"path":       path,
			"operation":  operation,
		}
		if respErr.Code >= fiber.StatusInternalServerError {
			traceID := log.ErrorWithTraceID(fields, "Operation failed with error response")
			return c.Status(respErr.Code).JSON(ktp.FailureWithTrace(err.Error(), traceID))
		}
		h.logger.WithFields(fields).Warn("Operation failed with error response")
		return c.Status(respErr.Code).JSON(ktp.Failure(err.Error()))
	}

	// Upload validation errors
	if errors.Is(err, utils.ErrNoFile) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("No selected file")
		return c.Status(fiber.StatusBadRequest).JSON(ktp.Failure("No selected file"))
	}

	if errors.Is(err, utils.ErrFileTooLarge) ||
		errors.Is(err, utils.ErrInvalidBase64) ||
		errors.Is(err, utils.ErrEmptyImageData) {
		h.logger.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
			"path":       path,
			"operation":  operation,
		}).Warn("Rejected image upload")
		return c.Status(fiber.StatusBadRequest).JSON(ktp.Failure(err.Error()))
	}

	traceID := log.ErrorWithTraceID(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(ktp.FailureWithTrace(err.Error(), traceID))
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ktp.Failure("Validation failed: " + err.Error()))
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(ktp.Failure("Request timeout"))
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(ktp.Failure(message))
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(ktp.Success(data))
}
