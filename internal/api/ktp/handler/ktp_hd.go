package ktpHandler

import (
	"KTPExtractor/internal/api/ktp"
	contextPkg "KTPExtractor/pkg/context"
	"KTPExtractor/pkg/handlerUtil"
	"KTPExtractor/pkg/log"
	"KTPExtractor/pkg/response"
	"KTPExtractor/pkg/utils"
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (h *KTPHandler) ExtractKTP(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), extractTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing KTP extraction request")

	var (
		image      []byte
		engineName string
	)

	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var req ktp.ExtractRequest
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
		if err := h.validator.Struct(req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}

		data, err := h.utils.DecodeBase64Image(req.ImageBase64)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "decode_base64_image")
		}
		image, engineName = data, req.OCRChoice
	} else {
		data, err := h.readUpload(ctx)
		if err != nil {
			return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_upload")
		}
		image, engineName = data, ctx.FormValue("ocr_choice")
	}

	result, err := h.ktpService.Extract(c, image, engineName)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(c.Err(), context.DeadlineExceeded) {
			return errHandler.HandleRequestTimeout(ctx)
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "extract_ktp")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result.Data)
	}
}

func (h *KTPHandler) readUpload(ctx *fiber.Ctx) ([]byte, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, ktp.ErrNoFilePart
	}

	files := form.File["image"]
	if len(files) == 0 {
		return nil, ktp.ErrNoFilePart
	}

	header := files[0]
	if header.Filename == "" {
		return nil, ktp.ErrNoSelectedFile
	}
	if err := h.utils.ValidateImageFile(header); err != nil {
		if errors.Is(err, utils.ErrNotAnImage) {
			return nil, response.Wrap(ktp.ErrInvalidImage, err)
		}
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return h.utils.ReadFile(file)
}

func (h *KTPHandler) GetExtraction(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), lookupTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID, errors.New("extraction ID is required"), ctx.Path())
	}

	extraction, err := h.ktpService.GetExtraction(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_extraction")
	}

	return ctx.Status(fiber.StatusOK).JSON(ktp.Response{Message: "Extraction found", Data: extraction})
}

func (h *KTPHandler) GetExtractionsByNIK(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), lookupTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	nik := strings.TrimSpace(ctx.Query("nik"))
	if nik == "" {
		return errHandler.HandleValidationError(ctx, requestID, errors.New("nik query parameter is required"), ctx.Path())
	}

	extractions, err := h.ktpService.GetExtractionsByNIK(c, nik)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_extractions")
	}

	return ctx.Status(fiber.StatusOK).JSON(ktp.Response{Message: "Extractions found", Data: extractions})
}
