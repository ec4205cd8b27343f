// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the note repository as tools for LLM integration via
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aldenvik/dagbok/internal/apperr"
	"github.com/aldenvik/dagbok/internal/notes"
)

// Server wraps the MCP server with note tools.
type Server struct {
	mcp  *server.MCPServer
	repo *notes.Repo
}

// New creates a new MCP server with all note tools registered.
func New(repo *notes.Repo) *Server {
	s := &Server{repo: repo}

	s.mcp = server.NewMCPServer(
		"Dagbok",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the note stored at an exact date and time."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Calendar date, YYYY-MM-DD")),
		mcp.WithString("time", mcp.Required(), mcp.Description("Wall-clock time, HH:MM")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("notes_for_day",
		mcp.WithDescription("List all notes stored on a calendar date, keyed by time."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Calendar date, YYYY-MM-DD")),
	), s.notesForDay)

	s.mcp.AddTool(mcp.NewTool("notes_for_week",
		mcp.WithDescription("List all notes in the week containing the given date, grouped by date."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Any date inside the week, YYYY-MM-DD")),
	), s.notesForWeek)

	s.mcp.AddTool(mcp.NewTool("notes_for_month",
		mcp.WithDescription("List all notes in the month containing the given date, grouped by date."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Any date inside the month, YYYY-MM-DD")),
	), s.notesForMonth)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Store a note at a date and time, replacing any existing note at that key. "+
			"See the dagbok://addressing resource for the key format."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Calendar date, YYYY-MM-DD")),
		mcp.WithString("time", mcp.Required(), mcp.Description("Wall-clock time, HH:MM")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Note text")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Overwrite an existing note at a date and time. Fails when no note exists there."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Calendar date, YYYY-MM-DD")),
		mcp.WithString("time", mcp.Required(), mcp.Description("Wall-clock time, HH:MM")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Replacement note text")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete the note stored at an exact date and time."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Calendar date, YYYY-MM-DD")),
		mcp.WithString("time", mcp.Required(), mcp.Description("Wall-clock time, HH:MM")),
	), s.deleteNote)

	// Resource: note addressing contract.
	s.mcp.AddResource(
		mcp.NewResource("dagbok://addressing", "Note Addressing Contract",
			mcp.WithResourceDescription("How notes are keyed by date and time."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readAddressingResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func requireKey(req mcp.CallToolRequest) (date, tm string, errResult *mcp.CallToolResult) {
	date, err := req.RequireString("date")
	if err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	tm, err = req.RequireString("time")
	if err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	return date, tm, nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, tm, errResult := requireKey(req)
	if errResult != nil {
		return errResult, nil
	}
	note, err := s.repo.Get(ctx, date, tm)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no note at %s %s", date, tm)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) notesForDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.rangeResult(ctx, req, func(ctx context.Context, date string) (any, error) {
		return s.repo.Day(ctx, date)
	})
}

func (s *Server) notesForWeek(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.rangeResult(ctx, req, func(ctx context.Context, date string) (any, error) {
		return s.repo.Week(ctx, date)
	})
}

func (s *Server) notesForMonth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.rangeResult(ctx, req, func(ctx context.Context, date string) (any, error) {
		return s.repo.Month(ctx, date)
	})
}

func (s *Server) rangeResult(ctx context.Context, req mcp.CallToolRequest, query func(context.Context, string) (any, error)) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := query(ctx, date)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultText("no notes found"), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, tm, errResult := requireKey(req)
	if errResult != nil {
		return errResult, nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.repo.Put(ctx, date, tm, text); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s %s", date, tm)), nil
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, tm, errResult := requireKey(req)
	if errResult != nil {
		return errResult, nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.repo.Update(ctx, date, tm, text); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no note at %s %s", date, tm)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %s %s", date, tm)), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, tm, errResult := requireKey(req)
	if errResult != nil {
		return errResult, nil
	}
	if err := s.repo.Delete(ctx, date, tm); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("no note at %s %s", date, tm)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s %s", date, tm)), nil
}

func (s *Server) readAddressingResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "dagbok://addressing",
			MIMEType: "text/markdown",
			Text:     AddressingContract,
		},
	}, nil
}
