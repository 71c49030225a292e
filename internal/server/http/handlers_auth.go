package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Ayash13/Antivity/internal/common"
	"github.com/Ayash13/Antivity/internal/server/models"
)

type userResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		CreatedAt:   u.CreatedAt,
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUsernameTaken):
			h.writeError(w, "username already taken", http.StatusConflict)
		case errors.Is(err, common.ErrorUnauthorized):
			h.writeError(w, "username and password are required", http.StatusBadRequest)
		default:
			h.logger.Error(r.Context(), "register failed", "error", err)
			h.writeError(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]any{"user": toUserResponse(user)})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	token, user, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			h.writeError(w, "invalid username or password", http.StatusUnauthorized)
			return
		}
		h.logger.Error(r.Context(), "login failed", "error", err)
		h.writeError(w, "login failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserResponse(user),
	})
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.users.GetProfile(r.Context(), UserID(r.Context()))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			h.writeError(w, "profile not found", http.StatusNotFound)
			return
		}
		h.logger.Error(r.Context(), "loading profile", "error", err)
		h.writeError(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"user":      toUserResponse(profile.User),
		"followers": profile.Followers,
		"following": profile.Following,
	})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.users.UpdateProfile(r.Context(), UserID(r.Context()), req.DisplayName, req.PhotoURL); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			h.writeError(w, "profile not found", http.StatusNotFound)
			return
		}
		h.logger.Error(r.Context(), "updating profile", "error", err)
		h.writeError(w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
