package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/smartdwell/dwellsearch/internal/models"
	"go.uber.org/zap"
)

// Stats reports the exact total document count and up to MaxFacetValues
// distinct values per facet. Facets come from a bounded sample of the first
// StatsSampleSize documents, a deliberate cost trade-off: they are estimates,
// not a full-catalog distinct scan. Only the total is exact.
func (e *Engine) Stats(ctx context.Context) (*models.StatsResponse, error) {
	total, err := e.store.Count(ctx, e.indices.Properties)
	if err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}

	sampleSize := e.cfg.StatsSampleSize
	hits, err := e.store.Search(ctx, e.indices.Properties,
		map[string]any{"query": map[string]any{"match_all": map[string]any{}}}, sampleSize)
	if err != nil {
		return nil, fmt.Errorf("stats sample: %w", err)
	}

	types := newFacet(e.cfg.MaxFacetValues)
	cities := newFacet(e.cfg.MaxFacetValues)
	platforms := newFacet(e.cfg.MaxFacetValues)
	for _, hit := range hits {
		var prop models.Property
		if err := json.Unmarshal(hit.Source, &prop); err != nil {
			e.logger.Warn("skipping unparseable sample document", zap.String("id", hit.ID), zap.Error(err))
			continue
		}
		types.add(prop.PropertyType)
		city := prop.City
		if city == "" && prop.GeoLocationDetails != nil {
			city = prop.GeoLocationDetails.City
		}
		cities.add(city)
		platforms.add(prop.PlatformName)
	}

	return &models.StatsResponse{
		TotalProperties: total,
		PropertyTypes:   types.values(),
		Cities:          cities.values(),
		Platforms:       platforms.values(),
		SampleSize:      sampleSize,
		Sampled:         true,
	}, nil
}

// facet collects distinct values in first-seen order up to a cap.
type facet struct {
	seen map[string]bool
	vals []string
	cap  int
}

func newFacet(cap int) *facet {
	return &facet{seen: make(map[string]bool), cap: cap}
}

func (f *facet) add(v string) {
	if v == "" || f.seen[v] || len(f.vals) >= f.cap {
		return
	}
	f.seen[v] = true
	f.vals = append(f.vals, v)
}

func (f *facet) values() []string {
	if f.vals == nil {
		return []string{}
	}
	return f.vals
}
