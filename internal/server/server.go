package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rapidroutines/render-repbot/internal/engine"
)

// Server is the thin HTTP collaborator in front of the detection engine. It
// decodes frames, resolves session identity, and relays the engine's result;
// all detection semantics live behind engine.Process.
type Server struct {
	engine *engine.Engine
	log    *slog.Logger
	router chi.Router
}

// New creates a Server with all routes configured. gatherer feeds the
// /metrics endpoint and is the registry the engine's collectors live in.
func New(eng *engine.Engine, gatherer prometheus.Gatherer, log *slog.Logger) *Server {
	s := &Server{
		engine: eng,
		log:    log,
		router: chi.NewRouter(),
	}
	s.routes(gatherer)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(gatherer prometheus.Gatherer) {
	s.router.Use(Recovery(s.log))
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/", s.handleIndex)
	s.router.Post("/process_landmarks", s.handleProcessLandmarks)

	// Administrative/diagnostic surface.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/session/init", s.handleSessionInit)
		r.Post("/session/cleanup", s.handleSessionCleanup)
		r.Get("/sessions", s.handleSessions)
		r.Get("/exercises", s.handleExercises)
	})

	s.router.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
