package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/smartdwell/dwellsearch/internal/models"
	"github.com/smartdwell/dwellsearch/internal/store"
	"go.uber.org/zap"
)

// Recommend ranks catalog properties by cosine similarity to the source
// property's stored embedding. A missing source or a source without an
// embedding yields an empty list; only store failures are errors.
func (e *Engine) Recommend(ctx context.Context, propertyID string, limit int) ([]*models.PropertyView, error) {
	if limit <= 0 {
		limit = models.DefaultSearchLimit
	}
	if limit > models.MaxSearchLimit {
		limit = models.MaxSearchLimit
	}

	raw, err := e.store.Get(ctx, e.indices.Properties, propertyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.logger.Warn("recommendation source not found", zap.String("property_id", propertyID))
			return []*models.PropertyView{}, nil
		}
		return nil, fmt.Errorf("fetch recommendation source: %w", err)
	}

	var source models.Property
	if err := json.Unmarshal(raw, &source); err != nil {
		return nil, fmt.Errorf("decode recommendation source: %w", err)
	}
	if len(source.Embedding) == 0 {
		// A vector-less property is a valid state in a partially indexed
		// catalog, not an error.
		e.logger.Debug("recommendation source has no embedding", zap.String("property_id", propertyID))
		return []*models.PropertyView{}, nil
	}

	query := similarityQuery(propertyID, source.Embedding)
	hits, err := e.store.Search(ctx, e.indices.Properties, map[string]any{"query": query}, limit)
	if err != nil {
		return nil, fmt.Errorf("recommendation search: %w", err)
	}

	results := make([]*models.PropertyView, 0, len(hits))
	for _, hit := range hits {
		view, err := hitToView(hit)
		if err != nil {
			e.logger.Warn("skipping unparseable hit", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		results = append(results, view)
	}
	return results, nil
}

// similarityQuery scores available properties other than the source by cosine
// similarity to vector, offset by +1.0 to keep scores non-negative.
func similarityQuery(sourceID string, vector []float32) map[string]any {
	return map[string]any{
		"script_score": map[string]any{
			"query": map[string]any{
				"bool": map[string]any{
					"must_not": map[string]any{
						"term": map[string]any{"property_id": sourceID},
					},
					"filter": []any{
						map[string]any{
							"term": map[string]any{"property_status": models.StatusAvailable},
						},
					},
				},
			},
			"script": map[string]any{
				"source": "cosineSimilarity(params.query_vector, 'embedding') + 1.0",
				"params": map[string]any{"query_vector": vector},
			},
		},
	}
}
