package config

// Default embedding models, tried in priority order. The first model that
// returns a vector wins; the list mirrors the AI platform's rollout order.
var defaultEmbeddingModels = []string{
	"text-embedding-004",
	"textembedding-gecko@003",
	"textembedding-gecko@002",
	"text-multilingual-embedding-002",
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Store.Host == "" {
		cfg.Store.Host = "localhost"
	}
	if cfg.Store.Port == 0 {
		cfg.Store.Port = 9200
	}
	if cfg.Store.Scheme == "" {
		cfg.Store.Scheme = "http"
	}
	if cfg.Store.Username == "" {
		cfg.Store.Username = "elastic"
	}
	if cfg.Store.Password == "" {
		cfg.Store.Password = "changeme"
	}
	if cfg.Store.IndexPrefix == "" {
		cfg.Store.IndexPrefix = "rental_search"
	}
	if len(cfg.Embedding.Models) == 0 {
		cfg.Embedding.Models = append([]string(nil), defaultEmbeddingModels...)
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 768
	}
	if cfg.Search.VectorWeight == nil {
		w := 0.7
		cfg.Search.VectorWeight = &w
	}
	if cfg.Search.KeywordWeight == nil {
		w := 0.3
		cfg.Search.KeywordWeight = &w
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Search.MaxLimit == 0 {
		cfg.Search.MaxLimit = 50
	}
	if cfg.Search.StatsSampleSize == 0 {
		cfg.Search.StatsSampleSize = 100
	}
	if cfg.Search.MaxFacetValues == 0 {
		cfg.Search.MaxFacetValues = 20
	}
	if cfg.Ingest.Extensions == nil {
		cfg.Ingest.Extensions = []string{".json", ".ndjson", ".xlsx"}
	}
}
