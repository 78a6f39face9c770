package ktp

import (
	"KTPExtractor/internal/entity"
	"KTPExtractor/pkg/ocr"

	"github.com/go-playground/validator/v10"
)

const (
	MessageSuccess = "OCR Success!"
	MessageReady   = "System Ready!"
	MessageHealthy = "System Healthy!"
)

type ExtractRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required"`
	OCRChoice   string `json:"ocr_choice" validate:"omitempty,ocr_engine"`
}

type ExtractionData struct {
	entity.NormalizedRecord
	TimeElapsed float64 `json:"time_elapsed"`
}

type ExtractionResult struct {
	Data      ExtractionData
	SkewAngle float64
	Engine    string
	Cached    bool
}

type Response struct {
	Error   bool        `json:"error"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func Success(data interface{}) Response {
	return Response{Error: false, Message: MessageSuccess, Data: data}
}

func Failure(message string) Response {
	return Response{Error: true, Message: message, Data: struct{}{}}
}

// FailureWithTrace is the server-side failure envelope. The trace id matches
// the trace_id field of the logged error.
func FailureWithTrace(message, traceID string) Response {
	return Response{Error: true, Message: message, Data: map[string]string{"trace_id": traceID}}
}

// RegisterValidations adds the ocr_engine tag used by ExtractRequest.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("ocr_engine", func(fl validator.FieldLevel) bool {
		_, err := ocr.ParseEngine(fl.Field().String())
		return err == nil
	})
}
