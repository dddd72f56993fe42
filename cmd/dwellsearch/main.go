// Package main is the dwellsearch CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/smartdwell/dwellsearch/internal/config"
	"github.com/smartdwell/dwellsearch/internal/conversation"
	"github.com/smartdwell/dwellsearch/internal/embedding"
	"github.com/smartdwell/dwellsearch/internal/ingest"
	"github.com/smartdwell/dwellsearch/internal/models"
	"github.com/smartdwell/dwellsearch/internal/schema"
	"github.com/smartdwell/dwellsearch/internal/search"
	"github.com/smartdwell/dwellsearch/internal/server"
	"github.com/smartdwell/dwellsearch/internal/store"
	"github.com/smartdwell/dwellsearch/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/dwellsearch/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if neither file
// exists the config is built from defaults and environment variables alone,
// which is how containerized deployments run.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cfg, err := config.Default()
			if err != nil {
				return nil, "", err
			}
			return cfg, "(defaults)", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// A missing .env is fine; environment variables may come from anywhere.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "load":
		runLoad()
	case "stats":
		runStats()
	case "version", "--version", "-v":
		fmt.Printf("dwellsearch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.Connect(ctx, &cfg.Store, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to connect to document store", zap.Error(err))
	}

	indices := cfg.Store.Indices()
	ctx, cancel = context.WithTimeout(context.Background(), 60*time.Second)
	err = schema.NewManager(st, indices, logger).EnsureIndices(ctx)
	cancel()
	if err != nil {
		logger.Fatal("Failed to ensure indices", zap.Error(err))
	}

	embedder, aiAvailable := initEmbedder(&cfg.Embedding, logger)

	engine := search.NewEngine(st, search.NewCompiler(aiAvailable), indices, &cfg.Search, logger)
	convlog := conversation.NewLog(st, indices.Conversations, logger)
	loader := ingest.NewLoader(st, indices.Properties, logger)
	if embedder != nil {
		loader.WithEmbedder(embedder)
	}

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Ingest.DropDir != "" {
		w := ingest.NewWatcher(cfg.Ingest.DropDir, cfg.Ingest.Extensions, loader, logger)
		if err := w.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start catalog watcher", zap.Error(err))
		}
	}

	srv := server.NewServer(engine, convlog, loader, st, indices, &cfg.Server, aiAvailable, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if embedder != nil {
		_ = embedder.Close()
	}
}

// initEmbedder builds the AI platform embedder from config. Any failure, a
// missing key included, degrades search to keyword-only instead of aborting
// startup.
func initEmbedder(cfg *config.EmbeddingConfig, logger *zap.Logger) (embedding.Embedder, bool) {
	if cfg.APIKey == "" {
		logger.Warn("no AI platform API key configured, semantic and hybrid search degrade to keyword")
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	embedder, err := embedding.NewGoogleEmbedder(ctx, cfg.APIKey, cfg.Models, cfg.Dimensions, logger)
	if err != nil {
		logger.Warn("AI platform unavailable, semantic and hybrid search degrade to keyword", zap.Error(err))
		return nil, false
	}
	return embedder, true
}

func runSearch() {
	searchArgs := os.Args[2:]
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	mode := fs.String("mode", "hybrid", "ranking mode: keyword, semantic, or hybrid")
	limit := fs.Int("limit", models.DefaultSearchLimit, "number of results")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(searchArgs)

	if fs.NArg() < 1 {
		fmt.Println("Usage: dwellsearch search [flags] <query>")
		os.Exit(1)
	}
	queryStr := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if queryStr == "" {
		fmt.Println("Usage: dwellsearch search [flags] <query>")
		os.Exit(1)
	}

	req := &models.SearchRequest{
		Query: queryStr,
		Limit: *limit,
		Mode:  models.Mode(*mode),
	}
	response, err := searchViaHTTP(*serverURL, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(response); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		if response.Mode != response.RequestedMode {
			fmt.Printf("note: served in %s mode (%s unavailable)\n\n", response.Mode, response.RequestedMode)
		}
		fmt.Printf("%d result(s) for %q\n\n", response.Total, response.Query)
		for i, r := range response.Results {
			fmt.Printf("%2d. %s", i+1, r.Name)
			if r.City != "" {
				fmt.Printf("  (%s)", r.City)
			}
			fmt.Printf("  score=%.2f\n", r.Score)
			if r.Price > 0 {
				fmt.Printf("    %s %.0f  %s\n", r.Currency, r.Price, r.PropertyType)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, req *models.SearchRequest) (*models.SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

// runLoad bulk-indexes a catalog file through direct store access, bypassing
// the HTTP server. Useful for seeding an index before the server is up.
func runLoad() {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: dwellsearch load [flags] <catalog-file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.Connect(ctx, &cfg.Store, logger)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to document store: %v\n", err)
		os.Exit(1)
	}
	indices := cfg.Store.Indices()
	ctx, cancel = context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := schema.NewManager(st, indices, logger).EnsureIndices(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to ensure indices: %v\n", err)
		os.Exit(1)
	}

	loader := ingest.NewLoader(st, indices.Properties, logger)
	if embedder, ok := initEmbedder(&cfg.Embedding, logger); ok {
		loader.WithEmbedder(embedder)
		defer embedder.Close()
	}
	result, err := loader.LoadFile(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Load failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Indexed %d propert(ies) from %s\n", result.Indexed, path)
	for _, f := range result.Failed {
		fmt.Printf("  failed %s: %s\n", f.ID, f.Reason)
	}
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/stats")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Stats failed (%d): %s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}
	var stats models.StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("total_properties:  %d\n", stats.TotalProperties)
	fmt.Printf("property_types:    %s\n", strings.Join(stats.PropertyTypes, ", "))
	fmt.Printf("cities:            %s\n", strings.Join(stats.Cities, ", "))
	fmt.Printf("platforms:         %s\n", strings.Join(stats.Platforms, ", "))
	if stats.Sampled {
		fmt.Printf("\n# facets sampled from first %d documents\n", stats.SampleSize)
	}
}

func printUsage() {
	fmt.Println(`dwellsearch - AI-powered rental property search service

Usage:
  dwellsearch server [flags]           Start the HTTP server
  dwellsearch search [flags] <query>   Search properties via a running server
  dwellsearch load [flags] <file>      Bulk-index a catalog file (.json, .ndjson, .xlsx)
  dwellsearch stats [flags]            Show catalog statistics
  dwellsearch version                  Show version
  dwellsearch help                     Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/dwellsearch/config.yaml)
  --debug            Enable debug logging

Search Flags:
  --server string    Server URL (default: http://localhost:8080)
  --mode string      Ranking mode: keyword, semantic, or hybrid (default: hybrid)
  --limit int        Number of results (default: 10)
  --output string    Output format: text or json (default: text)

Load Flags:
  --config string    Config file path

Stats Flags:
  --server string    Server URL (default: http://localhost:8080)

Examples:
  dwellsearch server
  dwellsearch search "2 bhk apartment near metro"
  dwellsearch search --mode keyword --limit 20 "villa in whitefield"
  dwellsearch load catalog.xlsx
  dwellsearch stats`)
}
