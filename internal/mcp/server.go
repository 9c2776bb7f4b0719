// Package mcp exposes the detector's sessions and configuration as MCP tools
// so an agent (or an operator driving one) can inspect live counters and run
// the administrative operations over stdio.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/rapidroutines/render-repbot/internal/engine"
)

// New creates an MCP server with all tools registered. Every tool goes
// through the same engine as the HTTP surface, so the per-key serialization
// and monotonic-counter invariants hold.
func New(eng *engine.Engine, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepBot", version,
		server.WithToolCapabilities(false),
		server.WithInstructions("Exercise rep-counter diagnostics. Inspect live session counters, list supported exercises and their detection thresholds, reset sessions, and sweep inactive ones."),
	)

	h := &handlers{eng: eng, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolListSessions, Handler: h.listSessions},
		server.ServerTool{Tool: toolGetSession, Handler: h.getSession},
		server.ServerTool{Tool: toolResetSession, Handler: h.resetSession},
		server.ServerTool{Tool: toolCleanupSessions, Handler: h.cleanupSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool handlers.
type handlers struct {
	eng *engine.Engine
	log *slog.Logger
}
