package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/smartdwell/dwellsearch/internal/config"
	"go.uber.org/zap"
)

const localFallbackURL = "http://localhost:9200"

// Client is the Elasticsearch-backed Store. A single Client is created at
// startup and shared read-only across all request handlers.
type Client struct {
	es     *elasticsearch.Client
	logger *zap.Logger
}

// Connect builds a client for the configured endpoint and verifies it with an
// info ping. If the configured endpoint is unreachable it makes one fallback
// attempt against the well-known local default; fallback is a startup-time
// decision only and is never re-attempted per request.
func Connect(ctx context.Context, cfg *config.StoreConfig, logger *zap.Logger) (*Client, error) {
	addr := cfg.Address()
	es, err := newES(addr, cfg)
	if err == nil {
		err = ping(ctx, es)
	}
	if err == nil {
		logger.Info("connected to document store", zap.String("addr", addr))
		return &Client{es: es, logger: logger}, nil
	}

	logger.Error("failed to connect to document store", zap.String("addr", addr), zap.Error(err))
	if addr != localFallbackURL {
		logger.Info("attempting fallback connection", zap.String("addr", localFallbackURL))
		fallback := &config.StoreConfig{URL: localFallbackURL, Username: "elastic", Password: "changeme"}
		es, fbErr := newES(localFallbackURL, fallback)
		if fbErr == nil {
			fbErr = ping(ctx, es)
		}
		if fbErr == nil {
			logger.Info("fallback connection succeeded")
			return &Client{es: es, logger: logger}, nil
		}
		logger.Error("fallback connection failed", zap.Error(fbErr))
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func newES(addr string, cfg *config.StoreConfig) (*elasticsearch.Client, error) {
	esCfg := elasticsearch.Config{
		Addresses:     []string{addr},
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504},
	}
	if cfg.APIKey != "" {
		esCfg.APIKey = cfg.APIKey
	} else {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}
	return elasticsearch.NewClient(esCfg)
}

func ping(ctx context.Context, es *elasticsearch.Client) error {
	res, err := es.Info(es.Info.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("info request failed: %s", res.Status())
	}
	return nil
}

// Exists reports whether the index exists.
func (c *Client) Exists(ctx context.Context, index string) (bool, error) {
	res, err := c.es.Indices.Exists([]string{index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return false, nil
	}
	if res.IsError() {
		return false, fmt.Errorf("exists %s: %s", index, res.Status())
	}
	return true, nil
}

// CreateIndex creates the index with the given mapping body.
func (c *Client) CreateIndex(ctx context.Context, index string, mapping []byte) error {
	res, err := c.es.Indices.Create(index,
		c.es.Indices.Create.WithBody(bytes.NewReader(mapping)),
		c.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", index, responseError(res.Body, res.Status()))
	}
	c.logger.Info("created index", zap.String("index", index))
	return nil
}

// IndexDocument writes a single document, optionally refreshing so the write
// is immediately visible to search.
func (c *Client) IndexDocument(ctx context.Context, index, id string, body any, refresh bool) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	refreshVal := "false"
	if refresh {
		refreshVal = "true"
	}
	res, err := c.es.Index(index, bytes.NewReader(data),
		c.es.Index.WithDocumentID(id),
		c.es.Index.WithRefresh(refreshVal),
		c.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index document %s/%s: %s", index, id, responseError(res.Body, res.Status()))
	}
	return nil
}

// BulkIndex writes documents in one batch. Per-item failures are reported in
// the result, never escalated: successful items stay committed.
func (c *Client) BulkIndex(ctx context.Context, index string, items []BulkItem) (*BulkResult, error) {
	if len(items) == 0 {
		return &BulkResult{}, nil
	}
	var buf bytes.Buffer
	for _, item := range items {
		meta := map[string]any{"index": map[string]any{"_id": item.ID}}
		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return nil, fmt.Errorf("encode bulk action: %w", err)
		}
		if err := json.NewEncoder(&buf).Encode(item.Body); err != nil {
			return nil, fmt.Errorf("encode bulk document %s: %w", item.ID, err)
		}
	}
	res, err := c.es.Bulk(&buf,
		c.es.Bulk.WithIndex(index),
		c.es.Bulk.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("bulk index %s: %s", index, responseError(res.Body, res.Status()))
	}

	var parsed struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode bulk response: %w", err)
	}
	result := &BulkResult{}
	for _, item := range parsed.Items {
		for _, op := range item {
			if op.Error != nil || op.Status >= 300 {
				reason := "unknown error"
				if op.Error != nil {
					reason = op.Error.Reason
				}
				result.Failed = append(result.Failed, FailedItem{ID: op.ID, Reason: reason})
			} else {
				result.Indexed++
			}
		}
	}
	if len(result.Failed) > 0 {
		c.logger.Warn("bulk index partial failure",
			zap.String("index", index),
			zap.Int("indexed", result.Indexed),
			zap.Int("failed", len(result.Failed)))
	}
	return result, nil
}

// Get fetches a document by id.
func (c *Client) Get(ctx context.Context, index, id string) (json.RawMessage, error) {
	res, err := c.es.Get(index, id, c.es.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return nil, fmt.Errorf("%s/%s: %w", index, id, ErrNotFound)
	}
	if res.IsError() {
		return nil, fmt.Errorf("get %s/%s: %s", index, id, res.Status())
	}
	var parsed struct {
		Source json.RawMessage `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode get response: %w", err)
	}
	return parsed.Source, nil
}

// Search executes the request body and returns scored hits in relevance order.
func (c *Client) Search(ctx context.Context, index string, body map[string]any, size int) ([]Hit, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}
	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(data)),
		c.es.Search.WithSize(size),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", index, responseError(res.Body, res.Status()))
	}
	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string          `json:"_id"`
				Score  float64         `json:"_score"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	hits := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score, Source: h.Source})
	}
	return hits, nil
}

// Count returns the exact number of documents in the index.
func (c *Client) Count(ctx context.Context, index string) (int64, error) {
	res, err := c.es.Count(
		c.es.Count.WithContext(ctx),
		c.es.Count.WithIndex(index),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, fmt.Errorf("count %s: %s", index, res.Status())
	}
	var parsed struct {
		Count int64 `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode count response: %w", err)
	}
	return parsed.Count, nil
}

// responseError extracts the error reason from an Elasticsearch error body,
// falling back to the HTTP status.
func responseError(body io.Reader, status string) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return status
	}
	var parsed struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Error.Reason == "" {
		return status + ": " + strings.TrimSpace(string(raw))
	}
	return parsed.Error.Type + ": " + parsed.Error.Reason
}
