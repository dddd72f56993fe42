package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/smartdwell/dwellsearch/internal/config"
	"github.com/smartdwell/dwellsearch/internal/models"
	"github.com/smartdwell/dwellsearch/internal/store"
	"go.uber.org/zap"
)

// Engine executes property searches, recommendations, and catalog stats
// against the document store. It holds no catalog state of its own: every
// read is a fresh round trip.
type Engine struct {
	store    store.Store
	compiler *Compiler
	indices  config.Indices
	cfg      *config.SearchConfig
	logger   *zap.Logger
}

// NewEngine creates an engine with the given dependencies.
func NewEngine(s store.Store, compiler *Compiler, indices config.Indices, cfg *config.SearchConfig, logger *zap.Logger) *Engine {
	return &Engine{
		store:    s,
		compiler: compiler,
		indices:  indices,
		cfg:      cfg,
		logger:   logger,
	}
}

// Search compiles and executes a ranking query. Zero hits is a valid
// non-error outcome; an unreachable store is surfaced, never masked.
func (e *Engine) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query, served := e.compiler.Compile(req.Query, req.Mode)
	if served != req.Mode {
		e.logger.Info("search mode degraded",
			zap.String("requested", string(req.Mode)),
			zap.String("served", string(served)))
	}

	hits, err := e.store.Search(ctx, e.indices.Properties, map[string]any{"query": query}, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("property search: %w", err)
	}

	results := make([]*models.PropertyView, 0, len(hits))
	for _, hit := range hits {
		view, err := hitToView(hit)
		if err != nil {
			e.logger.Warn("skipping unparseable hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		view.Mode = served
		results = append(results, view)
	}

	return &models.SearchResponse{
		Query:         req.Query,
		Results:       results,
		Total:         len(results),
		RequestedMode: req.Mode,
		Mode:          served,
	}, nil
}

func hitToView(hit store.Hit) (*models.PropertyView, error) {
	var prop models.Property
	if err := json.Unmarshal(hit.Source, &prop); err != nil {
		return nil, fmt.Errorf("decode property: %w", err)
	}
	view := prop.View()
	view.Score = hit.Score
	return view, nil
}
