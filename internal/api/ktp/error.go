package ktp

import (
	"KTPExtractor/pkg/response"
	"net/http"
)

var (
	ErrNoFilePart          = response.NewError(http.StatusBadRequest, "No file part")
	ErrNoSelectedFile      = response.NewError(http.StatusBadRequest, "No selected file")
	ErrUnsupportedEngine   = response.NewError(http.StatusBadRequest, "Invalid OCR choice")
	ErrInvalidImage        = response.NewError(http.StatusInternalServerError, "cannot decode image")
	ErrProcessingFailed    = response.NewError(http.StatusInternalServerError, "failed to process KTP image")
	ErrDetectorUnavailable = response.NewError(http.StatusBadGateway, "KTP field detector unavailable")
)

var (
	ErrExtractionNotFound = response.NewError(http.StatusNotFound, "KTP extraction not found")
	ErrHistoryUnavailable = response.NewError(http.StatusServiceUnavailable, "extraction history is not configured")
)
