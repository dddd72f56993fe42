// Package server provides the HTTP API for dwellsearch.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/smartdwell/dwellsearch/internal/config"
	"github.com/smartdwell/dwellsearch/internal/conversation"
	"github.com/smartdwell/dwellsearch/internal/ingest"
	"github.com/smartdwell/dwellsearch/internal/search"
	"github.com/smartdwell/dwellsearch/internal/store"
	"go.uber.org/zap"
)

// Server is the HTTP server for the dwellsearch API.
type Server struct {
	engine      *search.Engine
	convlog     *conversation.Log
	loader      *ingest.Loader
	store       store.Store
	indices     config.Indices
	cfg         *config.ServerConfig
	aiAvailable bool
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	convlog *conversation.Log,
	loader *ingest.Loader,
	st store.Store,
	indices config.Indices,
	cfg *config.ServerConfig,
	aiAvailable bool,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:      engine,
		convlog:     convlog,
		loader:      loader,
		store:       st,
		indices:     indices,
		cfg:         cfg,
		aiAvailable: aiAvailable,
		logger:      logger,
	}
}

// Router builds the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/stats", s.handleStats)
	r.Get("/api/v1/properties/{id}", s.handleGetProperty)
	r.Get("/api/v1/properties/{id}/recommendations", s.handleRecommendations)
	r.Post("/api/v1/properties", s.handleIndexProperty)
	r.Post("/api/v1/properties/bulk", s.handleBulkProperties)
	r.Post("/api/v1/inquiries", s.handleCreateInquiry)
	r.Post("/api/v1/site-visits", s.handleScheduleVisit)
	r.Post("/api/v1/chat/{session}/messages", s.handleSaveChatMessage)
	r.Get("/api/v1/chat/{session}/history", s.handleChatHistory)
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
