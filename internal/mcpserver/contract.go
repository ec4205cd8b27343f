package mcpserver

// AddressingContract describes how notes are keyed, for LLM consumers
// creating or updating notes through the MCP tools.
const AddressingContract = `# Dagbok Note Addressing Contract

Every note is identified by a (date, time) pair.

## Keys

- **date**: calendar date in ` + "`YYYY-MM-DD`" + ` form. Must be a real
  Gregorian date (2024-04-31 is rejected).
- **time**: wall-clock time in ` + "`HH:MM`" + ` form, zero-padded, 24-hour.
  Seconds are not supported.

## Rules

1. ` + "`create_note`" + ` is an upsert: writing to an occupied key replaces the
   stored note silently.
2. ` + "`update_note`" + ` requires the key to already hold a note and fails
   otherwise.
3. The stored timestamp is set by the server on every write; it cannot
   be supplied.
4. Note text is sanitized before storage: the characters
   ` + "`& < > \" ' ` = /`" + ` are escaped to numeric character references.
5. Range tools (` + "`notes_for_week`" + `, ` + "`notes_for_month`" + `) cover the span
   containing the given date, both boundary days inclusive.

## Example

` + "```" + `
create_note date=2024-03-11 time=09:30 text="standup moved to 10:00"
notes_for_week date=2024-03-13   # includes the 2024-03-11 note
` + "```" + `
`
