// Fundfaqd answers natural-language questions about a fixed mutual-fund
// catalog using only verified, sourced facts.
//
// The daemon wires the query pipeline (guardrail, intent classifier, fact
// retriever, answer composer) to its collaborators: the Gemini generative
// and embedding APIs, an embedded chromem vector index and a MySQL fact
// store populated by the external ingestion job.
//
// Usage:
//
//	# Start with defaults
//	FUNDFAQ_GEMINI_API_KEY=... FUNDFAQ_DATABASE_DSN=... fundfaqd
//
//	# Or point at a YAML config file
//	fundfaqd -config /etc/fundfaq/config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fundwise/fundfaq/internal/answer"
	"github.com/fundwise/fundfaq/internal/catalog"
	"github.com/fundwise/fundfaq/internal/config"
	"github.com/fundwise/fundfaq/internal/embeddings"
	"github.com/fundwise/fundfaq/internal/httpapi"
	"github.com/fundwise/fundfaq/internal/intent"
	"github.com/fundwise/fundfaq/internal/llm"
	"github.com/fundwise/fundfaq/internal/logging"
	"github.com/fundwise/fundfaq/internal/pipeline"
	"github.com/fundwise/fundfaq/internal/retrieval"
	"github.com/fundwise/fundfaq/internal/vectorstore"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	seed := flag.Bool("seed", false, "index the catalog into the vector store and exit")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("fundfaqd %s (%s)\n", version, gitCommit)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down", sig)
		cancel()
	}()

	if err := run(ctx, *configPath, *seed); err != nil && err != http.ErrServerClosed {
		log.Fatalf("fundfaqd: %v", err)
	}
}

// run initializes all collaborators and serves until the context is
// cancelled. Construction failures here are fatal configuration errors;
// per-query failures are handled inside the pipeline.
func run(ctx context.Context, configPath string, seed bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting fundfaqd", zap.String("version", version))

	db, err := catalog.Open(cfg.Database.DSN.Value())
	if err != nil {
		return err
	}
	store := catalog.NewCache(catalog.NewGormStore(db))

	embedder, err := embeddings.NewGemini(ctx, cfg.Gemini.APIKey.Value(), cfg.Gemini.EmbeddingModel)
	if err != nil {
		return fmt.Errorf("creating embedding client: %w", err)
	}

	vectors, err := vectorstore.New(vectorstore.Config{
		Path:       cfg.VectorStore.Path,
		Collection: cfg.VectorStore.Collection,
		Compress:   cfg.VectorStore.Compress,
	}, embedder, logger.Named("vectorstore"))
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}

	if seed {
		n, err := vectorstore.SeedFromCatalog(ctx, vectors, store)
		if err != nil {
			return fmt.Errorf("seeding vector store: %w", err)
		}
		logger.Info("vector store seeded", zap.Int("documents", n))
		return nil
	}

	generator, err := llm.NewGemini(ctx, llm.GeminiConfig{
		APIKey:    cfg.Gemini.APIKey.Value(),
		Model:     cfg.Gemini.Model,
		Timeout:   cfg.Gemini.Timeout.Duration(),
		RateLimit: cfg.Gemini.RateLimit,
	}, logger.Named("llm"))
	if err != nil {
		return fmt.Errorf("creating generative client: %w", err)
	}
	defer func() { _ = generator.Close() }()

	classifier := intent.NewClassifier(generator, store, cfg.Retrieval.MatchThreshold, logger.Named("intent"))
	retriever := retrieval.New(vectors, store, retrieval.Config{
		TopK:           cfg.Retrieval.TopK,
		MatchThreshold: cfg.Retrieval.MatchThreshold,
	}, logger.Named("retrieval"))
	composer := answer.NewComposer(generator, cfg.Catalog.RootURL, logger.Named("answer"))

	p := pipeline.New(classifier, retriever, composer, logger.Named("pipeline"))

	server, err := httpapi.NewServer(p, httpapi.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}, logger.Named("http"))
	if err != nil {
		return fmt.Errorf("creating http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
