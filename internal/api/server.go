// Package api exposes the HTTP surface: ingestion, section navigation,
// retrieval-augmented question answering, comparison, drafting and
// translation.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/muscatlabs/qanun/internal/config"
	"github.com/muscatlabs/qanun/internal/index"
	"github.com/muscatlabs/qanun/internal/llm"
	"github.com/muscatlabs/qanun/internal/pipeline"
	"github.com/muscatlabs/qanun/internal/section"
)

// Server is the HTTP API server.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	nav          *section.Navigator
	store        *index.Store
	llm          *llm.Client
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, nav *section.Navigator, store *index.Store, client *llm.Client, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		nav:          nav,
		store:        store,
		llm:          client,
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

		r.Post("/api/ingest", s.handleIngest)
		r.Get("/api/ingest/{jobID}/status", s.handleIngestStatus)
		r.Post("/api/ingest/batch", s.handleBatchIngest)

		r.Get("/api/documents", s.handleListDocuments)
		r.Delete("/api/documents/{docID}", s.handleDeleteDocument)
		r.Get("/api/documents/{docID}/sections", s.handleSections)
		r.Post("/api/documents/{docID}/section", s.handleSectionByPath)

		r.Post("/api/crossrefs", s.handleCrossReferences)
		r.Post("/api/ask", s.handleAsk)
		r.Post("/api/compare", s.handleCompare)
		r.Post("/api/analyze", s.handleAnalyze)
		r.Post("/api/draft", s.handleDraft)
		r.Post("/api/translate", s.handleTranslate)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
