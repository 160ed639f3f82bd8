package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/edurag/ragserver/internal/api"
	"github.com/edurag/ragserver/internal/assist"
	"github.com/edurag/ragserver/internal/cache"
	"github.com/edurag/ragserver/internal/config"
	"github.com/edurag/ragserver/internal/database"
	"github.com/edurag/ragserver/internal/embedding"
	"github.com/edurag/ragserver/internal/llm"
	"github.com/edurag/ragserver/internal/queue"
	"github.com/edurag/ragserver/internal/rag"
	"github.com/edurag/ragserver/internal/vectorstore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to set up vector store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := store.EnsureCollection(ctx); err != nil {
		slog.Warn("collection check failed, queries may error", "error", err)
	}

	// Redis is optional; without it the embedding cache and async ingestion
	// are disabled.
	var rdb *redis.Client
	var embedCache *cache.Cache
	var queueClient *queue.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, running without cache and queue", "error", err)
			rdb = nil
		} else {
			embedCache = cache.New(rdb)
			queueClient = queue.NewClient(cfg.Redis)
			defer queueClient.Close()
			defer rdb.Close()
		}
	}

	gateway := llm.NewGateway(cfg.LLM)
	embedSvc := embedding.NewService(gateway, cfg.Embedding.Provider, cfg.Embedding.Model, embedCache)
	ragSvc := rag.NewService(store, embedSvc, gateway, cfg.RAG.TopK, cfg.LLM.DefaultProvider, cfg.LLM.DefaultModel)
	assistSvc := assist.NewService(gateway, cfg.LLM.DefaultProvider, cfg.LLM.DefaultModel)

	router := api.NewRouter(cfg, rdb, ragSvc, assistSvc, queueClient)
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
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
