package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Ayash13/Antivity/internal/common"
	"github.com/Ayash13/Antivity/internal/geo"
	"github.com/Ayash13/Antivity/internal/server/models"
	"github.com/Ayash13/Antivity/internal/session"
	"github.com/Ayash13/Antivity/internal/walk"
)

// maxSessionBody caps a full walk upload: five photos plus form overhead.
const maxSessionBody = walk.SlotCount*(5<<20) + 1<<20

// assembleMeta is the JSON "meta" field of the session upload form.
type assembleMeta struct {
	StartedAt time.Time `json:"startedAt"`
	Targets   []string  `json:"targets"`
	Slots     []struct {
		Index  int      `json:"index"`
		Target string   `json:"target"`
		Lat    *float64 `json:"lat"`
		Lng    *float64 `json:"lng"`
	} `json:"slots"`
}

// handleAssembleSession implements POST /api/sessions: a multipart form with
// a "meta" JSON field and the captured photos under "photo_{index}".
func (h *Handler) handleAssembleSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSessionBody)

	if err := r.ParseMultipartForm(maxSessionBody); err != nil {
		h.writeError(w, "Invalid multipart request", http.StatusBadRequest)
		return
	}

	var meta assembleMeta
	if err := json.Unmarshal([]byte(r.FormValue("meta")), &meta); err != nil {
		h.writeError(w, "Invalid meta: "+err.Error(), http.StatusBadRequest)
		return
	}

	slots := make([]walk.Slot, walk.SlotCount)
	for _, m := range meta.Slots {
		if m.Index < 0 || m.Index >= walk.SlotCount {
			h.writeError(w, "slot index out of range", http.StatusBadRequest)
			return
		}
		slot := walk.Slot{Target: m.Target}
		if m.Lat != nil && m.Lng != nil {
			slot.Geotag = &geo.Coord{Lat: *m.Lat, Lng: *m.Lng}
		}

		file, header, err := r.FormFile(photoField(m.Index))
		if err == nil {
			image, readErr := io.ReadAll(file)
			file.Close()
			if readErr != nil {
				h.writeError(w, "Failed to read photo", http.StatusBadRequest)
				return
			}
			slot.Image = image
			slot.ContentType = header.Header.Get("Content-Type")
		}

		slots[m.Index] = slot
	}

	sess, err := h.sessions.Assemble(r.Context(), UserID(r.Context()), meta.StartedAt, meta.Targets, slots)
	if err != nil {
		if errors.Is(err, common.ErrNoUploadedItems) {
			h.writeError(w, "no images were successfully uploaded", http.StatusBadGateway)
			return
		}
		h.logger.Error(r.Context(), "assembling session", "error", err)
		h.writeError(w, "failed to save session", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, sess)
}

func photoField(index int) string {
	return fmt.Sprintf("photo_%d", index)
}

func (h *Handler) handleLatestSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Latest(r.Context(), UserID(r.Context()))
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.GetByDocID(r.Context(), UserID(r.Context()), r.PathValue("docId"))
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) handleMarkPosted(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.MarkItemsPosted(r.Context(), UserID(r.Context()), r.PathValue("docId")); err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleUploadSelfie(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxValidateBody)

	file, header, err := h.formImage(w, r)
	if err != nil {
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, "Failed to read image", http.StatusBadRequest)
		return
	}

	url, err := h.sessions.UploadSelfie(r.Context(), UserID(r.Context()), r.PathValue("docId"),
		image, header.Header.Get("Content-Type"))
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"selfieImageUrl": url})
}

type journalEntryResponse struct {
	ID             string    `json:"id"`
	SessionDocID   string    `json:"sessionDocId"`
	ResultImageURL string    `json:"resultImageUrl"`
	StoryTitle     string    `json:"storyTitle"`
	StoryContent   string    `json:"storyContent"`
	TotalDistance  float64   `json:"totalDistance"`
	CreatedAt      time.Time `json:"createdAt"`
}

func toJournalEntryResponse(e *models.JournalEntry) journalEntryResponse {
	return journalEntryResponse{
		ID:             e.ID,
		SessionDocID:   e.SessionDocID,
		ResultImageURL: e.ResultImageURL,
		StoryTitle:     e.StoryTitle,
		StoryContent:   e.StoryContent,
		TotalDistance:  e.TotalDistance,
		CreatedAt:      e.CreatedAt,
	}
}

// handleSaveResult stores the composed result card and the story for a walk.
func (h *Handler) handleSaveResult(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxValidateBody)

	file, _, err := h.formImage(w, r)
	if err != nil {
		return
	}
	defer file.Close()

	card, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, "Failed to read image", http.StatusBadRequest)
		return
	}

	entry, err := h.sessions.SaveResult(r.Context(), UserID(r.Context()), r.PathValue("docId"),
		card, r.FormValue("storyTitle"), r.FormValue("storyContent"))
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toJournalEntryResponse(entry))
}

// handleWeekJournal implements GET /api/journal?anchor=2026-03-18. Without
// an anchor the current week is returned.
func (h *Handler) handleWeekJournal(w http.ResponseWriter, r *http.Request) {
	anchor := time.Now()
	if v := r.URL.Query().Get("anchor"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			h.writeError(w, "Invalid anchor date, want YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		anchor = parsed
	}

	view, err := h.sessions.WeekJournal(r.Context(), UserID(r.Context()), anchor)
	if err != nil {
		h.logger.Error(r.Context(), "loading journal", "error", err)
		h.writeError(w, "failed to load journal", http.StatusInternalServerError)
		return
	}

	type day struct {
		Date     string                 `json:"date"`
		Sessions []*session.Session     `json:"sessions"`
		Entries  []journalEntryResponse `json:"entries"`
	}
	days := make([]day, 0, len(view.Days))
	for _, d := range view.Days {
		entries := make([]journalEntryResponse, 0, len(d.Entries))
		for _, e := range d.Entries {
			entries = append(entries, toJournalEntryResponse(e))
		}
		days = append(days, day{
			Date:     d.Date.Format("2006-01-02"),
			Sessions: d.Sessions,
			Entries:  entries,
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"weekStart": view.Start.Format("2006-01-02"),
		"days":      days,
	})
}

// formImage reads the "file" part shared by the selfie and result uploads.
func (h *Handler) formImage(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	f, fh, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, "No image file provided", http.StatusBadRequest)
		return nil, nil, err
	}
	return f, fh, nil
}

func (h *Handler) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		h.writeError(w, "session not found", http.StatusNotFound)
		return
	}
	h.logger.Error(r.Context(), "session operation failed", "error", err)
	h.writeError(w, "session operation failed", http.StatusInternalServerError)
}
