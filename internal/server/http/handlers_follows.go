package http

import (
	"errors"
	"net/http"

	"github.com/Ayash13/Antivity/internal/common"
)

func (h *Handler) handleFollow(w http.ResponseWriter, r *http.Request) {
	err := h.follows.Follow(r.Context(), UserID(r.Context()), r.PathValue("userId"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			h.writeError(w, "user not found", http.StatusNotFound)
			return
		}
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListFollowing(w http.ResponseWriter, r *http.Request) {
	ids, err := h.follows.Following(r.Context(), UserID(r.Context()))
	if err != nil {
		h.logger.Error(r.Context(), "listing follows", "error", err)
		h.writeError(w, "failed to list follows", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]string{"following": ids})
}

func (h *Handler) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	if err := h.follows.Unfollow(r.Context(), UserID(r.Context()), r.PathValue("userId")); err != nil {
		h.logger.Error(r.Context(), "unfollowing", "error", err)
		h.writeError(w, "failed to unfollow", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
