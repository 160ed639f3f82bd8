package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edurag/ragserver/internal/config"
)

func configWithKeys() config.LLMConfig {
	return config.LLMConfig{
		GeminiKey: "gk",
		OllamaURL: "http://localhost:11434",
	}
}

type stubProvider struct {
	name      string
	calls     int
	failUntil int // number of calls that fail before succeeding
	text      string
}

func (p *stubProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	p.calls++
	if p.calls <= p.failUntil {
		return nil, errors.New("transient failure")
	}
	return &GenerateResponse{Provider: p.name, Text: p.text}, nil
}

func (p *stubProvider) Embed(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error) {
	p.calls++
	return &EmbeddingResponse{Provider: p.name, Embeddings: [][]float32{{0.1}}}, nil
}

func (p *stubProvider) Name() string     { return p.name }
func (p *stubProvider) Models() []string { return nil }

func TestGatewayGenerate(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		g := &gateway{providers: map[string]Provider{}}
		_, err := g.Generate(context.Background(), GenerateRequest{Provider: "nope", Prompt: "q"})
		assert.ErrorContains(t, err, `provider "nope" not configured`)
	})

	t.Run("retries until success", func(t *testing.T) {
		p := &stubProvider{name: "primary", failUntil: 2, text: "ok"}
		g := &gateway{
			providers:  map[string]Provider{"primary": p},
			maxRetries: 2,
		}

		resp, err := g.Generate(context.Background(), GenerateRequest{Provider: "primary", Prompt: "q"})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Text)
		assert.Equal(t, 3, p.calls)
	})

	t.Run("falls back after retries are exhausted", func(t *testing.T) {
		p := &stubProvider{name: "primary", failUntil: 100}
		fb := &stubProvider{name: "backup", text: "fallback answer"}
		g := &gateway{
			providers:        map[string]Provider{"primary": p, "backup": fb},
			fallbackProvider: "backup",
		}

		resp, err := g.Generate(context.Background(), GenerateRequest{Provider: "primary", Prompt: "q"})
		require.NoError(t, err)
		assert.Equal(t, "fallback answer", resp.Text)
		assert.Equal(t, "backup", resp.Provider)
	})

	t.Run("default provider and model are filled in", func(t *testing.T) {
		p := &stubProvider{name: "primary", text: "ok"}
		g := &gateway{
			providers:       map[string]Provider{"primary": p},
			defaultProvider: "primary",
			defaultModel:    "some-model",
		}

		resp, err := g.Generate(context.Background(), GenerateRequest{Prompt: "q"})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Text)
		assert.Equal(t, 1, p.calls)
	})
}

func TestGatewayEmbed(t *testing.T) {
	p := &stubProvider{name: "primary"}
	g := &gateway{
		providers:       map[string]Provider{"primary": p},
		defaultProvider: "primary",
	}

	resp, err := g.Embed(context.Background(), EmbeddingRequest{Input: []string{"a"}})
	require.NoError(t, err)
	require.Len(t, resp.Embeddings, 1)
	assert.Equal(t, 1, p.calls)
}

func TestNewGatewayRegistration(t *testing.T) {
	g := NewGateway(configWithKeys())

	_, err := g.Provider("gemini")
	assert.NoError(t, err)
	_, err = g.Provider("ollama")
	assert.NoError(t, err)
	_, err = g.Provider("openai")
	assert.Error(t, err, "unset keys must not register a provider")
}
