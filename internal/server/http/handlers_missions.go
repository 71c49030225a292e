package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Ayash13/Antivity/internal/common"
	"github.com/Ayash13/Antivity/internal/server/models"
)

type missionResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Targets     []string `json:"targets"`
	Reward      int      `json:"reward"`
	Status      string   `json:"status"`
}

func (h *Handler) handleListMissions(w http.ResponseWriter, r *http.Request) {
	list, err := h.missions.List(r.Context(), UserID(r.Context()))
	if err != nil {
		h.logger.Error(r.Context(), "listing missions", "error", err)
		h.writeError(w, "failed to list missions", http.StatusInternalServerError)
		return
	}

	out := make([]missionResponse, 0, len(list))
	for _, m := range list {
		out = append(out, missionResponse{
			ID:          m.Mission.ID,
			Title:       m.Mission.Title,
			Description: m.Mission.Description,
			Targets:     m.Mission.Targets,
			Reward:      m.Mission.Reward,
			Status:      string(m.Status),
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleSetMissionStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	err := h.missions.SetStatus(r.Context(), UserID(r.Context()), r.PathValue("id"), models.MissionStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			h.writeError(w, "mission not found", http.StatusNotFound)
		default:
			h.writeError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
