package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the supported exercise types with the active detection thresholds and timing gates."),
)

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List live session keys (sessionId_exerciseType) and the total count."),
)

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Get the current state (rep counter, stage, last activity) for one session."),
	mcp.WithString("sessionId", mcp.Required(), mcp.Description("The raw session id")),
	mcp.WithString("exerciseType", mcp.Required(), mcp.Description("Exercise type, e.g. bicepCurl, squat, pushup")),
)

var toolResetSession = mcp.NewTool("reset_session",
	mcp.WithDescription("Reset a session's counters to zero. Returns the session id, generated if none was given."),
	mcp.WithString("sessionId", mcp.Description("The raw session id; omit to generate one")),
	mcp.WithString("exerciseType", mcp.Required(), mcp.Description("Exercise type the session counts")),
)

var toolCleanupSessions = mcp.NewTool("cleanup_sessions",
	mcp.WithDescription("Delete sessions inactive for longer than the given window."),
	mcp.WithNumber("olderThanMs", mcp.Description("Inactivity window in milliseconds. Defaults to one hour.")),
)

// --- Handlers ---

func (h *handlers) listExercises(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timing := h.eng.Timing()
	result, err := mcp.NewToolResultJSON(map[string]any{
		"exercises":       h.eng.Exercises(),
		"repCooldownMs":   timing.RepCooldownMS,
		"holdThresholdMs": timing.HoldThresholdMS,
		"thresholds":      h.eng.Thresholds(),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listSessions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(map[string]any{
		"count": h.eng.SessionCount(),
		"keys":  h.eng.SessionKeys(),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSession(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("sessionId", "")
	exerciseType := req.GetString("exerciseType", "")
	if sessionID == "" || exerciseType == "" {
		return mcp.NewToolResultError("sessionId and exerciseType are required"), nil
	}

	st, ok := h.eng.Session(sessionID, exerciseType)
	if !ok {
		return mcp.NewToolResultError("no such session"), nil
	}
	result, err := mcp.NewToolResultJSON(st)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) resetSession(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseType := req.GetString("exerciseType", "")
	if exerciseType == "" {
		return mcp.NewToolResultError("exerciseType is required"), nil
	}

	sessionID, st, err := h.eng.ResetSession(req.GetString("sessionId", ""), exerciseType)
	if err != nil {
		h.log.Error("mcp reset_session", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"sessionId":  sessionID,
		"repCounter": st.RepCounter,
		"stage":      st.Stage,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) cleanupSessions(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	olderThan := req.GetInt("olderThanMs", 60*60*1000)
	removed := h.eng.CleanupSessions(int64(olderThan))

	result, err := mcp.NewToolResultJSON(map[string]any{"removed": removed})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
