package schema

import (
	"context"
	"fmt"

	"github.com/smartdwell/dwellsearch/internal/config"
	"github.com/smartdwell/dwellsearch/internal/store"
	"go.uber.org/zap"
)

// Manager creates the four logical indices at startup.
type Manager struct {
	store   store.Store
	indices config.Indices
	retry   store.RetryPolicy
	logger  *zap.Logger
}

// NewManager returns a Manager using the default retry policy.
func NewManager(s store.Store, indices config.Indices, logger *zap.Logger) *Manager {
	return &Manager{
		store:   s,
		indices: indices,
		retry:   store.DefaultRetryPolicy,
		logger:  logger,
	}
}

// WithRetryPolicy overrides the retry policy. Used by tests to avoid real
// backoff delays.
func (m *Manager) WithRetryPolicy(p store.RetryPolicy) *Manager {
	m.retry = p
	return m
}

// EnsureIndices idempotently creates every index that does not already exist.
// Index creation is a one-time cluster-wide schema commitment; once created,
// field types are immutable for the lifetime of the index. Transient creation
// failures are retried with backoff; a persistent failure is returned, never
// swallowed.
func (m *Manager) EnsureIndices(ctx context.Context) error {
	for _, idx := range []struct {
		name    string
		mapping string
	}{
		{m.indices.Properties, PropertiesMapping},
		{m.indices.Conversations, ConversationsMapping},
		{m.indices.Inquiries, InquiriesMapping},
		{m.indices.SiteVisits, SiteVisitsMapping},
	} {
		if err := m.ensureIndex(ctx, idx.name, idx.mapping); err != nil {
			return fmt.Errorf("ensure index %s: %w", idx.name, err)
		}
	}
	return nil
}

func (m *Manager) ensureIndex(ctx context.Context, name, mapping string) error {
	exists, err := m.store.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		m.logger.Debug("index already exists", zap.String("index", name))
		return nil
	}
	return m.retry.Do(ctx, func() error {
		return m.store.CreateIndex(ctx, name, []byte(mapping))
	})
}
