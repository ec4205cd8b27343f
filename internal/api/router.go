package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/aldenvik/dagbok/internal/notes"
	"github.com/aldenvik/dagbok/internal/sse"
)

// NewRouter creates a chi router with all note routes mounted.
// broker, if non-nil, also serves the change event stream at
// GET /notes/events.
func NewRouter(repo *notes.Repo, broker *sse.Broker) chi.Router {
	h := NewHandler(repo, broker)

	r := chi.NewRouter()
	r.Use(CORS())

	r.Route("/notes", func(r chi.Router) {
		// Range queries. The static segments take precedence over the
		// {date}/{time} pattern below.
		r.Get("/day/{date}", h.DayNotes)
		r.Get("/week/{date}", h.WeekNotes)
		r.Get("/month/{date}", h.MonthNotes)

		if broker != nil {
			r.Get("/events", broker.ServeHTTP)
		}

		// Point operations on a single (date, time) key.
		r.Get("/{date}/{time}", h.GetNote)
		r.Post("/{date}/{time}", h.CreateNote)
		r.Put("/{date}/{time}", h.UpdateNote)
		r.Delete("/{date}/{time}", h.DeleteNote)
	})

	return r
}
