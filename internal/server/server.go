// Package server provides the HTTP API for the blog's post catalog.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/motoblog/internal/config"
	"github.com/hyperjump/motoblog/internal/ranking"
	"github.com/hyperjump/motoblog/internal/search"
	"github.com/hyperjump/motoblog/internal/storage"
	"go.uber.org/zap"
)

// DirectoryLister reports the directories a content watcher covers.
type DirectoryLister interface {
	Directories() []string
}

// Server is the HTTP server for the blog API.
type Server struct {
	engine  *search.Engine
	ranker  *ranking.Ranker
	recent  storage.RecentSearchStore
	config  *config.Config
	watch   DirectoryLister
	logger  *zap.Logger
	server  *http.Server
	started time.Time
	now     func() time.Time
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	ranker *ranking.Ranker,
	recent storage.RecentSearchStore,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:  engine,
		ranker:  ranker,
		recent:  recent,
		config:  cfg,
		logger:  logger,
		started: time.Now(),
		now:     time.Now,
	}
}

// WithWatcher exposes the watcher's directories in the status response.
func (s *Server) WithWatcher(w DirectoryLister) *Server {
	s.watch = w
	return s
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.sessions)
		r.Get("/posts", s.handleListPosts)
		r.Get("/posts/{slug}", s.handleGetPost)
		r.Get("/posts/{slug}/related", s.handleRelated)
		r.Get("/facets", s.handleFacets)
		r.Get("/suggest", s.handleSuggest)
		r.Get("/searches/recent", s.handleRecentSearches)
		r.Delete("/searches/recent", s.handleClearRecentSearches)
		r.Get("/status", s.handleStatus)
	})
	r.Get("/sitemap.xml", s.handleSitemap)
	r.Get("/health", s.handleHealth)
	return r
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := s.Addr()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
