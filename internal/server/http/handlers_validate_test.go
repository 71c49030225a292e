package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ayash13/Antivity/internal/logging"
	"github.com/Ayash13/Antivity/internal/server/judge"
	"github.com/Ayash13/Antivity/internal/server/services"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	found bool
	err   error
}

func (c *stubChecker) Check(ctx context.Context, image []byte, mimeType, target string) (bool, error) {
	return c.found, c.err
}

func newValidateHandler(checker services.Checker) *Handler {
	return NewHandler(
		services.NewValidationService(checker),
		nil, nil, nil, nil, nil,
		[]byte("secret"),
		logging.NewNopLogger(),
	)
}

func validateRequest(t *testing.T, contentType, target string, image []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if image != nil {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="file"; filename="capture.jpg"`}
		h["Content-Type"] = []string{contentType}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	if target != "" {
		require.NoError(t, mw.WriteField("target", target))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/validate-photo", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type verdictError struct {
	Error string `json:"error"`
	Valid bool   `json:"valid"`
}

func decodeVerdictError(t *testing.T, rr *httptest.ResponseRecorder) verdictError {
	t.Helper()
	var e verdictError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	return e
}

func TestValidatePhoto_MissingFile(t *testing.T) {
	h := newValidateHandler(&stubChecker{})

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, validateRequest(t, "", "cat", nil))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	e := decodeVerdictError(t, rr)
	require.Equal(t, "No image file provided", e.Error)
	require.False(t, e.Valid)
}

func TestValidatePhoto_MissingTarget(t *testing.T) {
	h := newValidateHandler(&stubChecker{})

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, validateRequest(t, "image/jpeg", "", []byte("img")))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, "No target object provided", decodeVerdictError(t, rr).Error)
}

func TestValidatePhoto_UnsupportedType(t *testing.T) {
	h := newValidateHandler(&stubChecker{})

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, validateRequest(t, "image/gif", "cat", []byte("img")))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	e := decodeVerdictError(t, rr)
	require.Equal(t, "Invalid file type. Please upload JPEG, PNG, or WebP", e.Error)
	require.False(t, e.Valid)
}

func TestValidatePhoto_Found(t *testing.T) {
	h := newValidateHandler(&stubChecker{found: true})

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, validateRequest(t, "image/jpeg", "cat", []byte("img")))

	require.Equal(t, http.StatusOK, rr.Code)

	var result struct {
		Valid      bool   `json:"valid"`
		Confidence string `json:"confidence"`
		Target     string `json:"target"`
		Message    string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.True(t, result.Valid)
	require.Equal(t, "high", result.Confidence)
	require.Equal(t, "cat", result.Target)
	require.Equal(t, "Found cat in image", result.Message)
}

func TestValidatePhoto_NotFound(t *testing.T) {
	h := newValidateHandler(&stubChecker{found: false})

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, validateRequest(t, "image/png", "cat", []byte("img")))

	require.Equal(t, http.StatusOK, rr.Code)

	var result struct {
		Valid   bool   `json:"valid"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.False(t, result.Valid)
	require.Equal(t, "cat not found in image", result.Message)
}

func TestValidatePhoto_NotConfigured(t *testing.T) {
	h := newValidateHandler(&stubChecker{err: judge.ErrNotConfigured})

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, validateRequest(t, "image/jpeg", "cat", []byte("img")))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "AI service not configured", decodeVerdictError(t, rr).Error)
}

func TestValidatePhoto_BackendError(t *testing.T) {
	h := newValidateHandler(&stubChecker{err: errors.New("model timeout")})

	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, validateRequest(t, "image/jpeg", "cat", []byte("img")))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	e := decodeVerdictError(t, rr)
	require.Equal(t, "Failed to validate image", e.Error)
	require.False(t, e.Valid)
}
