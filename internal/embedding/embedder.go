// Package embedding provides text embedding via the Google AI platform with
// model fallback.
package embedding

import "context"

// Embedder produces vector embeddings for text. Implementations hold no
// per-request state and are safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
	Close() error
}
