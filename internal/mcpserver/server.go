// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes namesake tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/namesake/internal/apperr"
	"github.com/starford/namesake/internal/noteservice"
	"github.com/starford/namesake/internal/titlematch"
)

const noActiveNote = "no note selected, nothing to do"

// Server wraps the MCP server with namesake tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all namesake tools registered.
func New(svc *noteservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"namesake",
		version,
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("find_similar_notes",
		mcp.WithDescription("List notes whose titles contain exactly the same words as the title of the given note, "+
			"in any order and ignoring case and punctuation. The note itself is never listed."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.findSimilar)

	s.mcp.AddTool(mcp.NewTool("fix_image_links",
		mcp.WithDescription("Rewrite image embeds such as ![[20230101123456.png]] into "+
			"![[Pasted image 20230101123456.png]] inside the given note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note")),
		mcp.WithBoolean("dry_run", mcp.Description("Only list the embeds that would be rewritten")),
	), s.fixImageLinks)

	s.mcp.AddTool(mcp.NewTool("copy_content",
		mcp.WithDescription("Overwrite every target note with the content of the source note and rename "+
			"each target after the source, keeping it in its folder. Targets default to the similar notes "+
			"of the source. Failures are reported per target."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Relative path to the source note")),
		mcp.WithArray("targets", mcp.WithStringItems(), mcp.Description("Relative paths of the notes to overwrite")),
	), s.copyContent)

	s.mcp.AddTool(mcp.NewTool("tokenize_title",
		mcp.WithDescription("Show the words a title is compared by."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title without extension")),
	), s.tokenizeTitle)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) findSimilar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.FindSimilar(ctx, path)
	if err != nil {
		return toolError(err), nil
	}
	if len(res.Similar) == 0 {
		return mcp.NewToolResultText("no similar notes found"), nil
	}
	return jsonResult(res.Similar), nil
}

func (s *Server) fixImageLinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var res *noteservice.FixResult
	if req.GetBool("dry_run", false) {
		res, err = s.svc.PreviewImageLinks(ctx, path)
	} else {
		res, err = s.svc.FixImageLinks(ctx, path)
	}
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(res), nil
}

func (s *Server) copyContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	targets := req.GetStringSlice("targets", nil)

	report, err := s.svc.CopyContent(ctx, source, targets)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(report), nil
}

func (s *Server) tokenizeTitle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tokens := titlematch.Tokenize(title)
	if len(tokens) == 0 {
		return mcp.NewToolResultText("no words"), nil
	}
	return mcp.NewToolResultText(strings.Join(tokens, " ")), nil
}

func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrNoActiveNote):
		return mcp.NewToolResultText(noActiveNote)
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("not found: %v", err))
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}
