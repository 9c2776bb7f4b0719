package server

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"github.com/rapidroutines/render-repbot/internal/engine"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "online",
		"message": "Exercise Counter API is running",
		"endpoints": map[string]string{
			"/process_landmarks":       "POST - Process exercise landmarks from MediaPipe",
			"/api/v1/session/init":     "POST - Reset a session's counters",
			"/api/v1/session/cleanup":  "POST - Remove inactive sessions",
			"/api/v1/sessions":         "GET - List live sessions",
			"/api/v1/exercises":        "GET - List supported exercise types",
			"/metrics":                 "GET - Prometheus metrics",
		},
	})
}

func (s *Server) handleProcessLandmarks(w http.ResponseWriter, r *http.Request) {
	var req engine.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.SessionID == "" {
		req.SessionID = peerSessionID(r)
	}
	if req.ExerciseType == "" {
		req.ExerciseType = "bicepCurl"
	}

	result, err := s.engine.Process(&req)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownExercise) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.log.Error("process error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type sessionInitRequest struct {
	SessionID    string `json:"sessionId"`
	ExerciseType string `json:"exerciseType"`
}

func (s *Server) handleSessionInit(w http.ResponseWriter, r *http.Request) {
	var req sessionInitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ExerciseType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exerciseType is required"})
		return
	}

	sessionID, st, err := s.engine.ResetSession(req.SessionID, req.ExerciseType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId":  sessionID,
		"repCounter": st.RepCounter,
		"stage":      st.Stage,
	})
}

type sessionCleanupRequest struct {
	OlderThanMS int64 `json:"olderThanMs"`
}

func (s *Server) handleSessionCleanup(w http.ResponseWriter, r *http.Request) {
	var req sessionCleanupRequest
	// An empty or malformed body falls through to the default window.
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.OlderThanMS <= 0 {
		req.OlderThanMS = 60 * 60 * 1000
	}

	removed := s.engine.CleanupSessions(req.OlderThanMS)
	writeJSON(w, http.StatusOK, map[string]any{"removed": removed})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"count": s.engine.SessionCount(),
		"keys":  s.engine.SessionKeys(),
	})
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"exercises": s.engine.Exercises(),
	})
}

// peerSessionID derives a fallback session id from the peer address when the
// client supplied none. Non-portable across proxies, but it keeps a bare
// client counting.
func peerSessionID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
