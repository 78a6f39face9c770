package utils

import (
	"encoding/base64"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULIDFromTimestamp(t *testing.T) {
	u := New()

	id, err := u.NewULIDFromTimestamp(time.Now())
	require.NoError(t, err)
	assert.Len(t, id, 26)
}

func TestValidateImageFile(t *testing.T) {
	u := New()

	header := func(ct string, size int64) *multipart.FileHeader {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", ct)
		return &multipart.FileHeader{Filename: "ktp.png", Header: h, Size: size}
	}

	assert.NoError(t, u.ValidateImageFile(header("image/png", 1024)))
	assert.ErrorIs(t, u.ValidateImageFile(nil), ErrNoFile)
	assert.ErrorIs(t, u.ValidateImageFile(header("text/plain", 10)), ErrNotAnImage)
	assert.ErrorIs(t, u.ValidateImageFile(header("image/jpeg", 11*1024*1024)), ErrFileTooLarge)
}

func TestDecodeBase64Image(t *testing.T) {
	u := New()
	payload := base64.StdEncoding.EncodeToString([]byte("pixels"))

	got, err := u.DecodeBase64Image(payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("pixels"), got)

	got, err = u.DecodeBase64Image("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("pixels"), got)

	_, err = u.DecodeBase64Image("%%%")
	assert.ErrorIs(t, err, ErrInvalidBase64)

	_, err = u.DecodeBase64Image("")
	assert.ErrorIs(t, err, ErrEmptyImageData)
}

func TestDigest(t *testing.T) {
	u := New()
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		u.Digest(nil))
	assert.NotEqual(t, u.Digest([]byte("a")), u.Digest([]byte("b")))
}
