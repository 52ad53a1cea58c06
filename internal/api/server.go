package api

import (
	"log/slog"
	"net/http"

	"github.com/dwesley/courseforge/internal/config"
	"github.com/dwesley/courseforge/internal/export"
	"github.com/dwesley/courseforge/internal/pipeline"
	"github.com/dwesley/courseforge/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API for the course site: chapter review edits, asset
// uploads, build jobs and the export bundle.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        *store.SiteStore
	exporter     *export.Exporter
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, st *store.SiteStore, exp *export.Exporter, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		store:        st,
		exporter:     exp,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/chapters", s.handleListChapters)
		r.Get("/api/chapters/{name}", s.handleGetChapter)
		r.Put("/api/chapters/{name}", s.handleSaveChapter)

		r.Post("/api/assets", s.handleUploadAsset)
		r.Post("/api/export", s.handleExport)

		r.Post("/api/build", s.handleBuild)
		r.Get("/api/build/{jobID}", s.handleBuildStatus)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
