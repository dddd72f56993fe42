// Package store defines the document store contract and its Elasticsearch client.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrUnavailable is returned when the document store cannot be reached.
// Callers surface it as a service-unavailable condition rather than crashing.
var ErrUnavailable = errors.New("document store unavailable")

// Hit is a single scored search result.
type Hit struct {
	ID     string
	Score  float64
	Source json.RawMessage
}

// BulkItem is one document in a bulk write.
type BulkItem struct {
	ID   string
	Body any
}

// FailedItem describes one document that failed during a bulk write.
type FailedItem struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkResult reports per-document outcomes of a bulk write. A partial failure
// is not an error: successful items remain committed.
type BulkResult struct {
	Indexed int          `json:"indexed"`
	Failed  []FailedItem `json:"failed,omitempty"`
}

// Store is the narrow operation contract this service consumes from the
// external document store. Implementations must be safe for concurrent use;
// the single client handle is shared across all in-flight requests.
type Store interface {
	// Exists reports whether the index exists.
	Exists(ctx context.Context, index string) (bool, error)

	// CreateIndex creates the index with the given mapping body.
	CreateIndex(ctx context.Context, index string, mapping []byte) error

	// IndexDocument writes a single document. When refresh is true the write
	// is visible to search before the call returns.
	IndexDocument(ctx context.Context, index, id string, body any, refresh bool) error

	// BulkIndex writes documents in one batch, reporting per-item outcomes.
	BulkIndex(ctx context.Context, index string, items []BulkItem) (*BulkResult, error)

	// Get fetches a document by id, returning ErrNotFound when absent.
	Get(ctx context.Context, index, id string) (json.RawMessage, error)

	// Search executes the given request body (query plus optional sort) and
	// returns up to size scored hits in relevance order.
	Search(ctx context.Context, index string, body map[string]any, size int) ([]Hit, error)

	// Count returns the exact number of documents in the index.
	Count(ctx context.Context, index string) (int64, error)
}
