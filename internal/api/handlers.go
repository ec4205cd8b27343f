// Package api implements the dagbok REST API using chi.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aldenvik/dagbok/internal/apperr"
	"github.com/aldenvik/dagbok/internal/notes"
	"github.com/aldenvik/dagbok/internal/sse"
	"github.com/aldenvik/dagbok/internal/validate"
)

// Client-facing messages. The wording is part of the API contract.
const (
	msgBadDate     = "Invalid date format. Use YYYY-MM-DD."
	msgBadDateTime = "Invalid date or time format. Use YYYY-MM-DD for date and HH:MM for time."
	msgNoText      = "Text is required."
	msgNoteGone    = "Note not found."
)

// Handler holds API route handlers.
type Handler struct {
	repo   *notes.Repo
	broker *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil to disable change
// notifications.
func NewHandler(repo *notes.Repo, broker *sse.Broker) *Handler {
	return &Handler{repo: repo, broker: broker}
}

func (h *Handler) notifyNote(kind, date, tm string) {
	if h.broker != nil {
		h.broker.PublishNoteEvent(kind, date, tm)
	}
}

// noteKey extracts and validates the {date}/{time} pair from the URL.
// A false return means the 400 response has already been written.
func noteKey(w http.ResponseWriter, r *http.Request) (date, tm string, ok bool) {
	date = chi.URLParam(r, "date")
	tm = chi.URLParam(r, "time")
	if _, err := validate.Date(date); err != nil {
		slog.Warn("invalid date or time", slog.String("date", date), slog.String("time", tm))
		writeJSON(w, http.StatusBadRequest, errorBody(msgBadDateTime))
		return "", "", false
	}
	if err := validate.Time(tm); err != nil {
		slog.Warn("invalid date or time", slog.String("date", date), slog.String("time", tm))
		writeJSON(w, http.StatusBadRequest, errorBody(msgBadDateTime))
		return "", "", false
	}
	return date, tm, true
}

// rangeDate extracts and validates the {date} param for range queries.
func rangeDate(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := chi.URLParam(r, "date")
	if _, err := validate.Date(date); err != nil {
		slog.Warn("invalid date", slog.String("date", date))
		writeJSON(w, http.StatusBadRequest, errorBody(msgBadDate))
		return "", false
	}
	return date, true
}

type noteBody struct {
	Text string `json:"text"`
}

// DayNotes handles GET /notes/day/{date}.
func (h *Handler) DayNotes(w http.ResponseWriter, r *http.Request) {
	date, ok := rangeDate(w, r)
	if !ok {
		return
	}
	day, err := h.repo.Day(r.Context(), date)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("No notes found for the specified date."))
		} else {
			slog.Error("fetch day notes failed", slog.String("date", date), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("Failed to fetch notes."))
		}
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// WeekNotes handles GET /notes/week/{date}.
func (h *Handler) WeekNotes(w http.ResponseWriter, r *http.Request) {
	date, ok := rangeDate(w, r)
	if !ok {
		return
	}
	week, err := h.repo.Week(r.Context(), date)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("No notes found for the specified week."))
		} else {
			slog.Error("fetch week notes failed", slog.String("date", date), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("Failed to fetch notes."))
		}
		return
	}
	writeJSON(w, http.StatusOK, week)
}

// MonthNotes handles GET /notes/month/{date}.
func (h *Handler) MonthNotes(w http.ResponseWriter, r *http.Request) {
	date, ok := rangeDate(w, r)
	if !ok {
		return
	}
	month, err := h.repo.Month(r.Context(), date)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("No notes found for the specified month."))
		} else {
			slog.Error("fetch month notes failed", slog.String("date", date), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("Failed to fetch notes."))
		}
		return
	}
	writeJSON(w, http.StatusOK, month)
}

// GetNote handles GET /notes/{date}/{time}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	date, tm, ok := noteKey(w, r)
	if !ok {
		return
	}
	note, err := h.repo.Get(r.Context(), date, tm)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody(msgNoteGone))
		} else {
			slog.Error("fetch note failed",
				slog.String("date", date), slog.String("time", tm), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("Failed to fetch note."))
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /notes/{date}/{time}. It is an upsert: an
// existing note at the key is replaced without complaint.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	date, tm, ok := noteKey(w, r)
	if !ok {
		return
	}
	text, ok := readText(w, r)
	if !ok {
		return
	}
	if _, err := h.repo.Put(r.Context(), date, tm, text); err != nil {
		slog.Error("create note failed",
			slog.String("date", date), slog.String("time", tm), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("Failed to create note."))
		return
	}
	slog.Info("note created", slog.String("date", date), slog.String("time", tm))
	h.notifyNote("created", date, tm)
	writeJSON(w, http.StatusCreated, messageBody("Note created successfully."))
}

// UpdateNote handles PUT /notes/{date}/{time}. Unlike create, the note
// must already exist.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	date, tm, ok := noteKey(w, r)
	if !ok {
		return
	}
	text, ok := readText(w, r)
	if !ok {
		return
	}
	if _, err := h.repo.Update(r.Context(), date, tm, text); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody(msgNoteGone))
		} else {
			slog.Error("update note failed",
				slog.String("date", date), slog.String("time", tm), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("Failed to update note."))
		}
		return
	}
	slog.Info("note updated", slog.String("date", date), slog.String("time", tm))
	h.notifyNote("updated", date, tm)
	writeJSON(w, http.StatusOK, messageBody("Note updated successfully."))
}

// DeleteNote handles DELETE /notes/{date}/{time}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	date, tm, ok := noteKey(w, r)
	if !ok {
		return
	}
	if err := h.repo.Delete(r.Context(), date, tm); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody(msgNoteGone))
		} else {
			slog.Error("delete note failed",
				slog.String("date", date), slog.String("time", tm), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("Failed to delete note."))
		}
		return
	}
	slog.Info("note deleted", slog.String("date", date), slog.String("time", tm))
	h.notifyNote("deleted", date, tm)
	writeJSON(w, http.StatusOK, messageBody("Note deleted successfully."))
}

// readText decodes the {text} request body. A false return means the
// 400 response has already been written.
func readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req noteBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("Invalid JSON body."))
		return "", false
	}
	if req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorBody(msgNoText))
		return "", false
	}
	return req.Text, true
}
