package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/me/studyplan/internal/config"
	"github.com/me/studyplan/internal/scheduler"
	"github.com/me/studyplan/internal/store"
)

// Server is the studyplan REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	startTime time.Time
	store     store.Store
	scheduler *scheduler.Service
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, st store.Store, sched *scheduler.Service, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		store:     st,
		scheduler: sched,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(instrument(s.logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}).Handler)

	// API routes (JSON)
	r.Route("/api/v1", func(r chi.Router) {
		// Discovery
		r.Get("/", s.handleDiscovery)

		// Health
		r.Get("/health", s.handleHealth)

		// Tasks
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleCreateTask)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetTask)
				r.Put("/", s.handleUpdateTask)
				r.Delete("/", s.handleDeleteTask)
			})
		})

		// Time blocks (the calendar)
		r.Route("/blocks", func(r chi.Router) {
			r.Get("/", s.handleListBlocks)
			r.Post("/", s.handleCreateBlock)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetBlock)
				r.Put("/", s.handleUpdateBlock)
				r.Delete("/", s.handleDeleteBlock)
				r.Post("/move", s.handleMoveBlock)
			})
		})

		// Scheduling
		r.Route("/schedule", func(r chi.Router) {
			r.Post("/auto", s.handleAutoSchedule)
			r.Post("/commit", s.handleCommitSchedule)
		})

		// Conflicts
		r.Route("/conflicts", func(r chi.Router) {
			r.Post("/check", s.handleCheckConflicts)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/options", s.handleResolutionOptions)
				r.Post("/resolve", s.handleResolveConflict)
			})
		})
	})
}
