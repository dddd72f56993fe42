// Package config provides configuration loading and structs for the dwellsearch server.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Ingest    IngestConfig    `yaml:"ingest"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig holds Elasticsearch connection settings and index naming.
type StoreConfig struct {
	URL         string `yaml:"url"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Scheme      string `yaml:"scheme"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	APIKey      string `yaml:"api_key"`
	IndexPrefix string `yaml:"index_prefix"`
}

// Address returns the full Elasticsearch URL, preferring an explicit url over
// the scheme/host/port triple.
func (s *StoreConfig) Address() string {
	if s.URL != "" {
		return s.URL
	}
	return fmt.Sprintf("%s://%s:%d", s.Scheme, s.Host, s.Port)
}

// Indices names the four logical indices derived from the configured prefix.
type Indices struct {
	Properties    string
	Conversations string
	Inquiries     string
	SiteVisits    string
}

// Indices returns the index names for the configured prefix.
func (s *StoreConfig) Indices() Indices {
	return Indices{
		Properties:    s.IndexPrefix + "_properties",
		Conversations: s.IndexPrefix + "_conversations",
		Inquiries:     s.IndexPrefix + "_inquiries",
		SiteVisits:    s.IndexPrefix + "_site_visits",
	}
}

// EmbeddingConfig holds AI platform embedding settings.
type EmbeddingConfig struct {
	APIKey     string   `yaml:"api_key"`
	Models     []string `yaml:"models"`
	Dimensions int      `yaml:"dimensions"`
}

// SearchConfig holds search, recommendation, and stats settings.
// Weights are pointers so that an explicit 0 is distinguishable from unset.
type SearchConfig struct {
	VectorWeight    *float64 `yaml:"vector_weight"`
	KeywordWeight   *float64 `yaml:"keyword_weight"`
	DefaultLimit    int      `yaml:"default_limit"`
	MaxLimit        int      `yaml:"max_limit"`
	StatsSampleSize int      `yaml:"stats_sample_size"`
	MaxFacetValues  int      `yaml:"max_facet_values"`
}

// IngestConfig holds catalog drop-directory settings.
type IngestConfig struct {
	DropDir    string   `yaml:"drop_dir"`
	Extensions []string `yaml:"extensions"`
}

// Load reads and parses the config file at path, applies environment
// overrides and defaults, and validates the result. A validation failure is a
// startup-time configuration error; callers should treat it as fatal.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a config built from defaults and environment variables only,
// for deployments that run without a config file.
func Default() (*Config, error) {
	var cfg Config
	applyEnvOverrides(&cfg)
	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvOverrides lets deployment environment variables win over the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ELASTICSEARCH_URL"); v != "" {
		cfg.Store.URL = v
	}
	if v := os.Getenv("ELASTICSEARCH_USER"); v != "" {
		cfg.Store.Username = v
	}
	if v := os.Getenv("ELASTICSEARCH_PASSWORD"); v != "" {
		cfg.Store.Password = v
	}
	if v := os.Getenv("ELASTICSEARCH_API_KEY"); v != "" {
		cfg.Store.APIKey = v
	}
	if v := os.Getenv("ELASTICSEARCH_INDEX_PREFIX"); v != "" {
		cfg.Store.IndexPrefix = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
}

// Validate checks invariants that must hold before the process serves
// traffic. Ranking weights outside [0,1] are rejected here, not at runtime.
func (c *Config) Validate() error {
	if w := *c.Search.VectorWeight; w < 0 || w > 1 {
		return fmt.Errorf("search.vector_weight must be between 0 and 1, got %v", w)
	}
	if w := *c.Search.KeywordWeight; w < 0 || w > 1 {
		return fmt.Errorf("search.keyword_weight must be between 0 and 1, got %v", w)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be a valid port, got %d", c.Server.Port)
	}
	if c.Store.IndexPrefix == "" {
		return fmt.Errorf("store.index_prefix must not be empty")
	}
	return nil
}
