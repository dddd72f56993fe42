// Package ingest loads property catalog files into the document store.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/smartdwell/dwellsearch/internal/embedding"
	"github.com/smartdwell/dwellsearch/internal/models"
	"github.com/smartdwell/dwellsearch/internal/store"
	"go.uber.org/zap"
)

// Loader bulk-indexes property records from dropped catalog files. Writes are
// at-least-once: a duplicate property_id overwrites the stored document, and
// per-item failures never roll back the rest of the batch.
type Loader struct {
	store    store.Store
	index    string
	embedder embedding.Embedder
	logger   *zap.Logger
}

// NewLoader creates a loader writing to the given properties index.
func NewLoader(s store.Store, index string, logger *zap.Logger) *Loader {
	return &Loader{store: s, index: index, logger: logger}
}

// WithEmbedder makes the loader embed records that arrive without a vector.
// Embedding failures are logged and the record is indexed without one, so a
// flaky AI platform never blocks catalog ingest.
func (l *Loader) WithEmbedder(e embedding.Embedder) *Loader {
	l.embedder = e
	return l
}

// LoadFile parses one catalog file by extension (.json, .ndjson, .xlsx) and
// bulk-indexes its properties. Records that fail validation are reported in
// the result alongside store-side failures; valid records still commit.
func (l *Loader) LoadFile(ctx context.Context, path string) (*store.BulkResult, error) {
	var (
		props []*models.Property
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		props, err = parseJSONFile(path)
	case ".ndjson":
		props, err = parseNDJSONFile(path)
	case ".xlsx":
		props, err = parseWorkbook(path)
	default:
		return nil, fmt.Errorf("unsupported catalog file type: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	result, err := l.LoadProperties(ctx, props)
	if err != nil {
		return nil, err
	}
	l.logger.Info("loaded catalog file",
		zap.String("path", path),
		zap.Int("indexed", result.Indexed),
		zap.Int("failed", len(result.Failed)))
	return result, nil
}

// LoadProperties validates and bulk-indexes the given properties. Invalid
// records are reported as failed items without blocking the valid ones.
func (l *Loader) LoadProperties(ctx context.Context, props []*models.Property) (*store.BulkResult, error) {
	now := time.Now().UTC()
	var items []store.BulkItem
	var invalid []store.FailedItem
	for _, p := range props {
		if err := p.Validate(); err != nil {
			invalid = append(invalid, store.FailedItem{ID: p.PropertyID, Reason: err.Error()})
			continue
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		if p.CombinedText == "" {
			p.CombinedText = p.BuildCombinedText()
		}
		l.embed(ctx, p)
		items = append(items, store.BulkItem{ID: p.PropertyID, Body: p})
	}

	result, err := l.store.BulkIndex(ctx, l.index, items)
	if err != nil {
		return nil, fmt.Errorf("bulk index properties: %w", err)
	}
	result.Failed = append(invalid, result.Failed...)
	return result, nil
}

func (l *Loader) embed(ctx context.Context, p *models.Property) {
	if l.embedder == nil || p.Embedding != nil || p.CombinedText == "" {
		return
	}
	vec, err := l.embedder.Embed(ctx, p.CombinedText)
	if err != nil {
		l.logger.Warn("embedding failed, indexing without vector",
			zap.String("property_id", p.PropertyID), zap.Error(err))
		return
	}
	p.Embedding = vec
}

func parseJSONFile(path string) ([]*models.Property, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var props []*models.Property
		if err := json.Unmarshal(data, &props); err != nil {
			return nil, err
		}
		return props, nil
	}
	var prop models.Property
	if err := json.Unmarshal(data, &prop); err != nil {
		return nil, err
	}
	return []*models.Property{&prop}, nil
}

func parseNDJSONFile(path string) ([]*models.Property, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var props []*models.Property
	dec := json.NewDecoder(f)
	for dec.More() {
		var prop models.Property
		if err := dec.Decode(&prop); err != nil {
			return nil, err
		}
		props = append(props, &prop)
	}
	return props, nil
}
