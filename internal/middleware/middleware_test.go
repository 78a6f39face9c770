package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, apiKey string) *fiber.App {
	t.Helper()
	t.Setenv(APIKeyEnv, apiKey)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	m := New(logger)

	app := fiber.New()
	app.Use(m.NewRequestIDMiddleware())
	app.Get("/protected", m.NewAPIKeyMiddleware, func(c *fiber.Ctx) error {
		return c.SendString(m.GetRequestID(c))
	})
	return app
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
	}{
		{name: "valid key", configured: "s3cret", header: "s3cret", wantStatus: http.StatusOK},
		{name: "wrong key", configured: "s3cret", header: "nope", wantStatus: http.StatusUnauthorized},
		{name: "missing header", configured: "s3cret", header: "", wantStatus: http.StatusUnauthorized},
		{name: "unconfigured server", configured: "", header: "anything", wantStatus: http.StatusUnauthorized},
		{name: "unconfigured server without header", configured: "", header: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, tt.configured)

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set(APIKeyHeader, tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == http.StatusUnauthorized {
				var body map[string]interface{}
				require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, true, body["error"])
				assert.Equal(t, "API key required", body["message"])
				assert.Equal(t, map[string]interface{}{}, body["data"])
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	app := newTestApp(t, "k")

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(APIKeyHeader, "k")
	req.Header.Set(RequestIDKey, "fixed-id")
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", string(body))
	assert.Equal(t, "fixed-id", resp.Header.Get(RequestIDKey))

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(APIKeyHeader, "k")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(RequestIDKey), 26)
}

func TestRateLimiterPerIP(t *testing.T) {
	r := newRateLimiter(1, 2)

	a := r.GetLimiterFrom("10.0.0.1")
	assert.Same(t, a, r.GetLimiterFrom("10.0.0.1"))
	assert.NotSame(t, a, r.GetLimiterFrom("10.0.0.2"))

	assert.True(t, a.Allow())
	assert.True(t, a.Allow())
	assert.False(t, a.Allow())
}

func TestSanitizeRequestBody(t *testing.T) {
	out := sanitizeRequestBody(fiber.MIMEApplicationJSON, []byte(`{"image_base64":"aGVsbG8=","ocr_choice":"easyocr"}`))
	assert.Contains(t, out, `"ocr_choice":"easyocr"`)
	assert.Contains(t, out, "[8 base64 chars]")
	assert.NotContains(t, out, "aGVsbG8=")

	assert.Equal(t, "[4 bytes]", sanitizeRequestBody("multipart/form-data; boundary=x", []byte("abcd")))
}
