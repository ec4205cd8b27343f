// Package notes implements the date/time-keyed note repository.
package notes

// Note is a text record stored under a (date, time) key. Timestamp is
// epoch milliseconds, set by the server on every write and never taken
// from the client.
type Note struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// DayNotes maps a time key (HH:MM) to its note.
type DayNotes map[string]Note

// RangeNotes maps a date key (YYYY-MM-DD) to that day's notes.
type RangeNotes map[string]DayNotes
