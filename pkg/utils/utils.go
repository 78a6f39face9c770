package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrNoFile         = errors.New("no file uploaded")
	ErrFileTooLarge   = errors.New("file size exceeds limit")
	ErrNotAnImage     = errors.New("uploaded file is not an image")
	ErrInvalidBase64  = errors.New("invalid base64 image data")
	ErrEmptyImageData = errors.New("image data is empty")
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	ValidateImageFile(file *multipart.FileHeader) error
	ReadFile(file multipart.File) ([]byte, error)
	DecodeBase64Image(data string) ([]byte, error)
	Digest(data []byte) string
}

type utils struct {
	maxFileSize int64
}

func New() IUtils {
	return &utils{
		maxFileSize: 10 * 1024 * 1024,
	}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func (u *utils) ValidateImageFile(file *multipart.FileHeader) error {
	if file == nil {
		return ErrNoFile
	}

	if file.Size > u.maxFileSize {
		return ErrFileTooLarge
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") && contentType != "application/octet-stream" {
		return ErrNotAnImage
	}

	return nil
}

func (u *utils) ReadFile(file multipart.File) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(file, u.maxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > u.maxFileSize {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmptyImageData
	}
	return data, nil
}

// DecodeBase64Image accepts raw base64 or a data URL.
func (u *utils) DecodeBase64Image(data string) ([]byte, error) {
	if i := strings.Index(data, ";base64,"); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+len(";base64,"):]
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, ErrInvalidBase64
	}
	if len(decoded) == 0 {
		return nil, ErrEmptyImageData
	}
	if int64(len(decoded)) > u.maxFileSize {
		return nil, ErrFileTooLarge
	}
	return decoded, nil
}

func (u *utils) Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
