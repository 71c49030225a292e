package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Ayash13/Antivity/internal/common"
	"github.com/Ayash13/Antivity/internal/server/models"
)

type postResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Username      string    `json:"username"`
	UserPhotoURL  string    `json:"userPhotoUrl"`
	ImageURL      string    `json:"imageUrl"`
	Caption       string    `json:"caption"`
	Target        string    `json:"target"`
	SessionDocID  string    `json:"sessionDocId,omitempty"`
	LikesCount    int       `json:"likesCount"`
	RepliesCount  int       `json:"repliesCount"`
	LikedByViewer bool      `json:"likedByViewer"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toPostResponse(p *models.Post) postResponse {
	return postResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		Username:      p.Username,
		UserPhotoURL:  p.UserPhotoURL,
		ImageURL:      p.ImageURL,
		Caption:       p.Caption,
		Target:        p.Target,
		SessionDocID:  p.SessionDocID,
		LikesCount:    p.LikesCount,
		RepliesCount:  p.RepliesCount,
		LikedByViewer: p.LikedByViewer,
		CreatedAt:     p.CreatedAt,
	}
}

type replyResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func toReplyResponse(r *models.Reply) replyResponse {
	return replyResponse{
		ID:        r.ID,
		PostID:    r.PostID,
		UserID:    r.UserID,
		Username:  r.Username,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

func (h *Handler) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ImageURL     string `json:"imageUrl"`
		Caption      string `json:"caption"`
		Target       string `json:"target"`
		SessionDocID string `json:"sessionDocId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ImageURL == "" {
		h.writeError(w, "imageUrl is required", http.StatusBadRequest)
		return
	}

	post, err := h.posts.Share(r.Context(), UserID(r.Context()), req.SessionDocID, req.ImageURL, req.Caption, req.Target)
	if err != nil {
		h.logger.Error(r.Context(), "creating post", "error", err)
		h.writeError(w, "failed to create post", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, toPostResponse(post))
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			h.writeError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	posts, err := h.posts.Feed(r.Context(), UserID(r.Context()), limit)
	if err != nil {
		h.logger.Error(r.Context(), "loading feed", "error", err)
		h.writeError(w, "failed to load feed", http.StatusInternalServerError)
		return
	}

	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleListLiked(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.Liked(r.Context(), UserID(r.Context()), 0)
	if err != nil {
		h.logger.Error(r.Context(), "loading liked posts", "error", err)
		h.writeError(w, "failed to load liked posts", http.StatusInternalServerError)
		return
	}

	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	liked, err := h.posts.ToggleLike(r.Context(), r.PathValue("id"), UserID(r.Context()))
	if err != nil {
		h.logger.Error(r.Context(), "toggling like", "error", err)
		h.writeError(w, "failed to toggle like", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

func (h *Handler) handleAddReply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		h.writeError(w, "text is required", http.StatusBadRequest)
		return
	}

	reply, err := h.posts.Reply(r.Context(), r.PathValue("id"), UserID(r.Context()), req.Text)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			h.writeError(w, "post not found", http.StatusNotFound)
			return
		}
		h.logger.Error(r.Context(), "adding reply", "error", err)
		h.writeError(w, "failed to add reply", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, toReplyResponse(reply))
}

func (h *Handler) handleListReplies(w http.ResponseWriter, r *http.Request) {
	replies, err := h.posts.Replies(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.Error(r.Context(), "listing replies", "error", err)
		h.writeError(w, "failed to list replies", http.StatusInternalServerError)
		return
	}

	out := make([]replyResponse, 0, len(replies))
	for _, rep := range replies {
		out = append(out, toReplyResponse(rep))
	}
	h.writeJSON(w, http.StatusOK, out)
}
