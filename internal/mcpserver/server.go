// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Linen tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/synexim/linen/internal/convert"
	"github.com/synexim/linen/internal/models"
	"github.com/synexim/linen/internal/notestore"
)

// Server wraps the MCP server with Linen tools.
type Server struct {
	mcp   *server.MCPServer
	store *notestore.Store
}

// New creates a new MCP server with all Linen tools registered.
func New(store *notestore.Store) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"Linen",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search notes by title and content (case-insensitive substring match)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note as plain text, regardless of its stored format."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note. Format is one of plain, rtf, markdown; "+
			"omit it to use the app's default format."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note content")),
		mcp.WithString("format", mcp.Description("Content format (plain, rtf, markdown)")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes, optionally restricted to a folder "+
			"(folder id, or the views \"all\" and \"favorites\")."),
		mcp.WithString("folder", mcp.Description("Optional folder id (empty for all)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("list_folders",
		mcp.WithDescription("List all folders with their ids."),
	), s.listFolders)

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

// noteSummary is the listing payload returned by search and list tools.
type noteSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	FolderID  string `json:"folderId,omitempty"`
	Favorite  bool   `json:"favorite,omitempty"`
	UpdatedAt int64  `json:"updatedAt"`
}

func summarize(notes []models.Note) []noteSummary {
	out := make([]noteSummary, len(notes))
	for i, n := range notes {
		out[i] = noteSummary{
			ID:        n.ID,
			Title:     n.Title,
			Favorite:  n.IsFavorite,
			UpdatedAt: n.UpdatedAt,
		}
		if n.FolderID != nil {
			out[i].FolderID = *n.FolderID
		}
	}
	return out
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results := s.store.FilteredNotes("", query)
	out, _ := json.MarshalIndent(summarize(results), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, ok := s.store.GetNote(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	var b strings.Builder
	if note.Title != "" {
		b.WriteString(note.Title)
		b.WriteString("\n\n")
	}
	b.WriteString(convert.PlainText(note.Content, note.RichContent, note.FormatType))
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	draft := models.Note{Title: title, Content: content}
	if f, err := req.RequireString("format"); err == nil && f != "" {
		ft := models.FormatType(f)
		if !ft.Valid() {
			return mcp.NewToolResultError(fmt.Sprintf("unknown format: %s", f)), nil
		}
		if ft == models.FormatRTF {
			draft.RichContent = convert.PlainToHTML(content)
		}
		draft.FormatType = ft
	}

	id := s.store.AddNote(draft)
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", id)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := ""
	if f, err := req.RequireString("folder"); err == nil {
		folder = f
	}
	notes := s.store.FilteredNotes(folder, "")
	out, _ := json.MarshalIndent(summarize(notes), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listFolders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folders := s.store.Folders()
	var lines []string
	for _, f := range folders {
		lines = append(lines, fmt.Sprintf("%s\t%s", f.ID, f.Name))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
