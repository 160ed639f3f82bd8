package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/edurag/ragserver/internal/cache"
	"github.com/edurag/ragserver/internal/llm"
)

const cacheTTL = 24 * time.Hour

// Service batches embedding calls through the gateway. Query embeddings can
// be served from an optional Redis cache keyed by model and text hash.
type Service struct {
	gateway  llm.Gateway
	provider string
	model    string
	cache    *cache.Cache
}

func NewService(gw llm.Gateway, provider, model string, c *cache.Cache) *Service {
	return &Service{gateway: gw, provider: provider, model: model, cache: c}
}

func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	// Provider batch limits; 100 is safe for all configured providers.
	const batchSize = 100
	var allEmbeddings [][]float32

	for i := 0; i < len(texts); i += batchSize {
		end := i + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		resp, err := s.gateway.Embed(ctx, llm.EmbeddingRequest{
			Provider: s.provider,
			Model:    s.model,
			Input:    texts[i:end],
		})
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", i/batchSize, err)
		}

		allEmbeddings = append(allEmbeddings, resp.Embeddings...)
	}

	if len(allEmbeddings) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d texts", len(allEmbeddings), len(texts))
	}

	return allEmbeddings, nil
}

func (s *Service) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	key := s.cacheKey(text)

	if s.cache != nil {
		var cached []float32
		if err := s.cache.Get(ctx, key, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	embeddings, err := s.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, embeddings[0], cacheTTL)
	}

	return embeddings[0], nil
}

func (s *Service) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("emb:%s:%s", s.model, hex.EncodeToString(sum[:]))
}
