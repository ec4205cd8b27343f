package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aldenvik/dagbok/internal/apperr"
	"github.com/aldenvik/dagbok/internal/daterange"
	"github.com/aldenvik/dagbok/internal/kvstore"
	"github.com/aldenvik/dagbok/internal/validate"
)

const basePath = "notes"

// Repo owns the mapping between (date, time) keys and stored notes.
// Input is validated and text sanitized before any store access, so a
// rejected request leaves no partial side effects.
type Repo struct {
	store     kvstore.Provider
	weekStart time.Weekday
	now       func() time.Time
}

// NewRepo creates a repository over the given store. weekStart sets the
// first day of the week for Week queries.
func NewRepo(store kvstore.Provider, weekStart time.Weekday) *Repo {
	return &Repo{
		store:     store,
		weekStart: weekStart,
		now:       time.Now,
	}
}

func notePath(date, tm string) string {
	return basePath + "/" + date + "/" + tm
}

// Day returns all notes stored under date.
func (r *Repo) Day(ctx context.Context, date string) (DayNotes, error) {
	if _, err := validate.Date(date); err != nil {
		return nil, err
	}
	children, err := r.store.Children(ctx, basePath+"/"+date)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, apperr.ErrNotFound
	}
	return decodeDay(children)
}

// Week returns all notes whose date falls in the week containing date,
// bounds inclusive.
func (r *Repo) Week(ctx context.Context, date string) (RangeNotes, error) {
	d, err := validate.Date(date)
	if err != nil {
		return nil, err
	}
	start, end := daterange.WeekBounds(d, r.weekStart)
	return r.notesInRange(ctx, start, end)
}

// Month returns all notes whose date falls in the month containing
// date, bounds inclusive.
func (r *Repo) Month(ctx context.Context, date string) (RangeNotes, error) {
	d, err := validate.Date(date)
	if err != nil {
		return nil, err
	}
	start, end := daterange.MonthBounds(d)
	return r.notesInRange(ctx, start, end)
}

// Get returns the single note at (date, tm).
func (r *Repo) Get(ctx context.Context, date, tm string) (*Note, error) {
	if err := r.validateKey(date, tm); err != nil {
		return nil, err
	}
	raw, err := r.store.Read(ctx, notePath(date, tm))
	if err != nil {
		return nil, err
	}
	var note Note
	if err := json.Unmarshal(raw, &note); err != nil {
		return nil, fmt.Errorf("notes: decode %s/%s: %w", date, tm, err)
	}
	return &note, nil
}

// Put stores a note at (date, tm), replacing any existing one. The
// stored timestamp is refreshed to now regardless of whether the text
// changed.
func (r *Repo) Put(ctx context.Context, date, tm, text string) (*Note, error) {
	note, err := r.prepare(date, tm, text)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(note)
	if err != nil {
		return nil, err
	}
	if err := r.store.Write(ctx, notePath(date, tm), raw); err != nil {
		return nil, err
	}
	return note, nil
}

// Update overwrites the note at (date, tm), which must already exist.
// Unlike Put it never creates a note; a missing key returns
// apperr.ErrNotFound and the store stays untouched.
func (r *Repo) Update(ctx context.Context, date, tm, text string) (*Note, error) {
	note, err := r.prepare(date, tm, text)
	if err != nil {
		return nil, err
	}
	path := notePath(date, tm)
	exists, err := r.store.Exists(ctx, path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.ErrNotFound
	}
	raw, err := json.Marshal(note)
	if err != nil {
		return nil, err
	}
	if err := r.store.Merge(ctx, path, raw); err != nil {
		return nil, err
	}
	return note, nil
}

// Delete removes the note at (date, tm). Deletion is destructive; a
// second Delete on the same key returns apperr.ErrNotFound.
func (r *Repo) Delete(ctx context.Context, date, tm string) error {
	if err := r.validateKey(date, tm); err != nil {
		return err
	}
	path := notePath(date, tm)
	exists, err := r.store.Exists(ctx, path)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.ErrNotFound
	}
	return r.store.Remove(ctx, path)
}

func (r *Repo) validateKey(date, tm string) error {
	if _, err := validate.Date(date); err != nil {
		return err
	}
	return validate.Time(tm)
}

// prepare validates the key, checks and sanitizes the text, and stamps
// the note with the current server time.
func (r *Repo) prepare(date, tm, text string) (*Note, error) {
	if err := r.validateKey(date, tm); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", apperr.ErrInvalidInput)
	}
	return &Note{
		Text:      validate.SanitizeText(text),
		Timestamp: r.now().UnixMilli(),
	}, nil
}

func (r *Repo) notesInRange(ctx context.Context, start, end string) (RangeNotes, error) {
	days, err := r.store.ChildrenRange(ctx, basePath, start, end)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, apperr.ErrNotFound
	}
	out := make(RangeNotes, len(days))
	for date, leaves := range days {
		day, err := decodeDay(leaves)
		if err != nil {
			return nil, err
		}
		out[date] = day
	}
	return out, nil
}

func decodeDay(leaves map[string]json.RawMessage) (DayNotes, error) {
	out := make(DayNotes, len(leaves))
	for tm, raw := range leaves {
		var note Note
		if err := json.Unmarshal(raw, &note); err != nil {
			return nil, fmt.Errorf("notes: decode %s: %w", tm, err)
		}
		out[tm] = note
	}
	return out, nil
}
