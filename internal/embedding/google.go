package embedding

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"
)

// modelEmbedder is the slice of langchaingo's embedder the fallback loop needs.
type modelEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type model struct {
	name     string
	embedder modelEmbedder
}

// GoogleEmbedder embeds text through the Google AI platform, trying a
// prioritized list of models until one succeeds. Individual model failures
// are non-fatal; only exhaustion of the whole list produces an error.
type GoogleEmbedder struct {
	models     []model
	dimensions int
	logger     *zap.Logger
}

// NewGoogleEmbedder builds one client per configured model name. Models whose
// clients cannot be constructed are logged and skipped; at least one usable
// model is required.
func NewGoogleEmbedder(ctx context.Context, apiKey string, modelNames []string, dimensions int, logger *zap.Logger) (*GoogleEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embedding api key is empty")
	}
	var models []model
	for _, name := range modelNames {
		llm, err := googleai.New(ctx,
			googleai.WithAPIKey(apiKey),
			googleai.WithDefaultEmbeddingModel(name),
		)
		if err != nil {
			logger.Warn("embedding model client unavailable", zap.String("model", name), zap.Error(err))
			continue
		}
		emb, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
		if err != nil {
			logger.Warn("embedding model client unavailable", zap.String("model", name), zap.Error(err))
			continue
		}
		models = append(models, model{name: name, embedder: emb})
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("no usable embedding models out of %d configured", len(modelNames))
	}
	return &GoogleEmbedder{models: models, dimensions: dimensions, logger: logger}, nil
}

// Embed returns the embedding from the first model that succeeds.
func (g *GoogleEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for _, m := range g.models {
		vec, err := m.embedder.EmbedQuery(ctx, text)
		if err != nil {
			g.logger.Warn("embedding model failed", zap.String("model", m.name), zap.Error(err))
			lastErr = err
			continue
		}
		if len(vec) == 0 {
			g.logger.Warn("embedding model returned empty vector", zap.String("model", m.name))
			lastErr = fmt.Errorf("model %s returned empty vector", m.name)
			continue
		}
		g.logger.Debug("generated embedding", zap.String("model", m.name), zap.Int("dims", len(vec)))
		return vec, nil
	}
	return nil, fmt.Errorf("all embedding models failed: %w", lastErr)
}

// Dimensions returns the expected embedding dimension.
func (g *GoogleEmbedder) Dimensions() int {
	return g.dimensions
}

// Close is a no-op; the model clients hold no resources needing release.
func (g *GoogleEmbedder) Close() error {
	return nil
}
