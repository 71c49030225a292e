// Package http exposes the Antivity API over plain HTTP with JSON and
// multipart bodies.
package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Ayash13/Antivity/internal/logging"
	"github.com/Ayash13/Antivity/internal/server/services"
)

// Handler carries the services behind the API endpoints.
type Handler struct {
	validation *services.ValidationService
	users      *services.UserService
	sessions   *services.SessionService
	posts      *services.PostService
	missions   *services.MissionService
	follows    *services.FollowService
	jwtSecret  []byte
	logger     logging.Logger
}

func NewHandler(
	validation *services.ValidationService,
	users *services.UserService,
	sessions *services.SessionService,
	posts *services.PostService,
	missions *services.MissionService,
	follows *services.FollowService,
	jwtSecret []byte,
	logger logging.Logger,
) *Handler {
	return &Handler{
		validation: validation,
		users:      users,
		sessions:   sessions,
		posts:      posts,
		missions:   missions,
		follows:    follows,
		jwtSecret:  jwtSecret,
		logger:     logger,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error(context.Background(), "writing response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, map[string]any{"error": message})
}

// Routes builds the API mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			h.logger.Error(r.Context(), "unable to write healthcheck", "error", err)
		}
	})

	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)

	mux.HandleFunc("POST /api/validate-photo", h.handleValidatePhoto)

	mux.HandleFunc("GET /api/profile", h.requireAuth(h.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", h.requireAuth(h.handleUpdateProfile))

	mux.HandleFunc("POST /api/sessions", h.requireAuth(h.handleAssembleSession))
	mux.HandleFunc("GET /api/sessions/latest", h.requireAuth(h.handleLatestSession))
	mux.HandleFunc("GET /api/sessions/{docId}", h.requireAuth(h.handleGetSession))
	mux.HandleFunc("POST /api/sessions/{docId}/posted", h.requireAuth(h.handleMarkPosted))
	mux.HandleFunc("POST /api/sessions/{docId}/selfie", h.requireAuth(h.handleUploadSelfie))
	mux.HandleFunc("POST /api/sessions/{docId}/result", h.requireAuth(h.handleSaveResult))
	mux.HandleFunc("GET /api/journal", h.requireAuth(h.handleWeekJournal))

	mux.HandleFunc("POST /api/posts", h.requireAuth(h.handleCreatePost))
	mux.HandleFunc("GET /api/posts", h.requireAuth(h.handleFeed))
	mux.HandleFunc("GET /api/posts/liked", h.requireAuth(h.handleListLiked))
	mux.HandleFunc("POST /api/posts/{id}/like", h.requireAuth(h.handleToggleLike))
	mux.HandleFunc("POST /api/posts/{id}/replies", h.requireAuth(h.handleAddReply))
	mux.HandleFunc("GET /api/posts/{id}/replies", h.requireAuth(h.handleListReplies))

	mux.HandleFunc("GET /api/missions", h.requireAuth(h.handleListMissions))
	mux.HandleFunc("PUT /api/missions/{id}/status", h.requireAuth(h.handleSetMissionStatus))

	mux.HandleFunc("GET /api/follows", h.requireAuth(h.handleListFollowing))
	mux.HandleFunc("POST /api/follows/{userId}", h.requireAuth(h.handleFollow))
	mux.HandleFunc("DELETE /api/follows/{userId}", h.requireAuth(h.handleUnfollow))

	return mux
}
