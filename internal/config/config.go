// Package config provides configuration loading for fundfaqd.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig indicates a configuration that cannot start the daemon.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root configuration for the daemon.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     LoggingConfig     `koanf:"logging"`
	Database    DatabaseConfig    `koanf:"database"`
	Gemini      GeminiConfig      `koanf:"gemini"`
	VectorStore VectorStoreConfig `koanf:"vectorstore"`
	Retrieval   RetrievalConfig   `koanf:"retrieval"`
	Catalog     CatalogConfig     `koanf:"catalog"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is "json" or "console".
	Format string `koanf:"format"`
}

// DatabaseConfig holds fact-store settings. The store is read-only from the
// pipeline's perspective; writes come from the external ingestion job.
type DatabaseConfig struct {
	// DSN is the MySQL data source name.
	DSN Secret `koanf:"dsn"`
}

// GeminiConfig holds the generative and embedding service settings.
type GeminiConfig struct {
	APIKey         Secret   `koanf:"api_key"`
	Model          string   `koanf:"model"`
	EmbeddingModel string   `koanf:"embedding_model"`
	Timeout        Duration `koanf:"timeout"`
	// RateLimit is requests per second allowed against the API.
	RateLimit float64 `koanf:"rate_limit"`
}

// VectorStoreConfig holds the embedded vector index settings.
type VectorStoreConfig struct {
	Path       string `koanf:"path"`
	Collection string `koanf:"collection"`
	Compress   bool   `koanf:"compress"`
}

// RetrievalConfig holds retrieval tuning knobs.
type RetrievalConfig struct {
	// TopK is the number of nearest documents fetched per semantic search.
	TopK int `koanf:"top_k"`
	// MatchThreshold is the minimum fuzzy-match similarity for product
	// resolution, in [0,1].
	MatchThreshold float64 `koanf:"match_threshold"`
}

// CatalogConfig holds catalog-wide presentation settings.
type CatalogConfig struct {
	// RootURL is the fallback source citation when no fact-level URL exists.
	RootURL string `koanf:"root_url"`
}

// Defaults returns a Config populated with default values. Loading applies
// YAML and environment overrides on top of these.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Gemini: GeminiConfig{
			Model:          "gemini-2.0-flash",
			EmbeddingModel: "text-embedding-004",
			Timeout:        Duration(30 * time.Second),
			RateLimit:      2,
		},
		VectorStore: VectorStoreConfig{
			Path:       "~/.local/share/fundfaq/vectorstore",
			Collection: "fund_facts",
		},
		Retrieval: RetrievalConfig{
			TopK:           5,
			MatchThreshold: 0.6,
		},
		Catalog: CatalogConfig{
			RootURL: "https://groww.in/mutual-funds/amc/icici-prudential-mutual-funds",
		},
	}
}

// Validate checks that the configuration can start the daemon. A missing
// Gemini API key is fatal at startup: the pipeline cannot be constructed
// without its generative collaborator.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("%w: logging format %q (want json or console)", ErrInvalidConfig, c.Logging.Format)
	}
	if !c.Gemini.APIKey.IsSet() {
		return fmt.Errorf("%w: gemini api_key required", ErrInvalidConfig)
	}
	if !c.Database.DSN.IsSet() {
		return fmt.Errorf("%w: database dsn required", ErrInvalidConfig)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: retrieval top_k must be positive", ErrInvalidConfig)
	}
	if c.Retrieval.MatchThreshold < 0 || c.Retrieval.MatchThreshold > 1 {
		return fmt.Errorf("%w: retrieval match_threshold must be in [0,1]", ErrInvalidConfig)
	}
	if c.Catalog.RootURL == "" {
		return fmt.Errorf("%w: catalog root_url required", ErrInvalidConfig)
	}
	return nil
}
