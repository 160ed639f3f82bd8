package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/edurag/ragserver/internal/config"
	"github.com/edurag/ragserver/internal/database"
	"github.com/edurag/ragserver/internal/embedding"
	"github.com/edurag/ragserver/internal/ingest"
	"github.com/edurag/ragserver/internal/llm"
	"github.com/edurag/ragserver/internal/vectorstore"
	"github.com/edurag/ragserver/pkg/chunker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	pathFlag := flag.String("path", "", "docs directory to ingest (defaults to BASE_DOCS_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	path := *pathFlag
	if path == "" {
		path = cfg.Ingest.BasePath
	}

	ctx := context.Background()

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up vector store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := store.EnsureCollection(ctx); err != nil {
		slog.Error("collection setup failed", "error", err)
		os.Exit(1)
	}

	gateway := llm.NewGateway(cfg.LLM)
	embedSvc := embedding.NewService(gateway, cfg.Embedding.Provider, cfg.Embedding.Model, nil)

	ingestor := ingest.New(embedSvc, store, chunker.Options{
		ChunkSize: cfg.Ingest.ChunkSize,
		Overlap:   cfg.Ingest.ChunkOverlap,
		Strategy:  cfg.Ingest.ChunkStrategy,
	})

	res, err := ingestor.Run(ctx, path)
	if err != nil {
		slog.Error("ingestion aborted", "error", err)
		os.Exit(1)
	}

	slog.Info("ingestion complete",
		"files", res.Files,
		"chunks", res.Chunks,
		"failed", len(res.Failed),
	)
	if len(res.Failed) > 0 {
		slog.Warn("some files failed", "paths", res.Failed)
		os.Exit(1)
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (vectorstore.Store, func(), error) {
	switch cfg.Vector.Backend {
	case "pgvector":
		pool, err := database.NewPool(ctx, cfg.Vector)
		if err != nil {
			return nil, nil, err
		}
		return vectorstore.NewPgVectorStore(pool, cfg.Vector.Size), pool.Close, nil
	default:
		store := vectorstore.NewQdrantStore(vectorstore.QdrantConfig{
			URL:        cfg.Vector.QdrantURL,
			APIKey:     cfg.Vector.QdrantKey,
			Collection: cfg.Vector.Collection,
			Size:       cfg.Vector.Size,
		})
		return store, func() {}, nil
	}
}
