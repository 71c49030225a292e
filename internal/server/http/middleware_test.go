package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ayash13/Antivity/internal/logging"
	"github.com/Ayash13/Antivity/internal/server/auth"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	secret := []byte("test-secret")
	h := NewHandler(nil, nil, nil, nil, nil, nil, secret, logging.NewNopLogger())

	var gotUserID string
	protected := h.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	token, err := auth.GenerateToken("user-1", secret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUserID string
	}{
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusNoContent, wantUserID: "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			protected(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, tt.wantUserID, gotUserID)
		})
	}
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil, nil, []byte("server-secret"), logging.NewNopLogger())

	token, err := auth.GenerateToken("user-1", []byte("other-secret"), time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	})(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestWithRequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("generates id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		withRequestID(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NotEmpty(t, rr.Header().Get("X-Request-Id"))
	})

	t.Run("keeps client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", "abc-123")
		rr := httptest.NewRecorder()
		withRequestID(next).ServeHTTP(rr, req)
		require.Equal(t, "abc-123", rr.Header().Get("X-Request-Id"))
	})
}

func TestHealthcheck(t *testing.T) {
	h := NewHandler(nil, nil, nil, nil, nil, nil, []byte("s"), logging.NewNopLogger())

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "OK", rr.Body.String())
}
