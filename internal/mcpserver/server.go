// Package mcpserver exposes a session as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"errors"
	"log/slog"
	"mankai/internal/session"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const defaultHistoryLimit = 20

type Handlers struct {
	Session *session.Session
}

// NewServer registers the mankai tools on a new MCP server. Every call is
// evaluated in the same session.
func NewServer(sess *session.Session, version string) *server.MCPServer {
	h := &Handlers{Session: sess}

	s := server.NewMCPServer(
		"mankai",
		version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(
		mcp.NewTool("mankai_eval",
			mcp.WithDescription("Evaluate mankai source in the server's session. Definitions persist between calls. Returns the value of the last expression."),
			mcp.WithString("expr",
				mcp.Required(),
				mcp.Description("One or more S-expressions, e.g. (defun! sq (n) (* n n)) (sq 4)"),
			),
		),
		h.Eval,
	)

	s.AddTool(
		mcp.NewTool("mankai_history",
			mcp.WithDescription("Show the latest evaluated inputs of the session with their results, oldest first."),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of entries (default 20)"),
			),
		),
		h.History,
	)

	return s
}

func (h *Handlers) Eval(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := request.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	val, err := h.Session.Eval(ctx, expr)
	if err != nil {
		slog.Debug("tool evaluation failed", slog.Any("error", err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(val.Inspect()), nil
}

func (h *Handlers) History(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}

	entries, err := h.Session.History(ctx, limit)
	if errors.Is(err, session.ErrNoHistory) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		slog.Warn("could not read history", slog.Any("error", err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("no history yet"), nil
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.String())
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}
