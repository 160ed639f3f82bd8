package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.LLM.DefaultProvider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.DefaultModel)
	assert.Equal(t, "text-embedding-004", cfg.Embedding.Model)
	assert.Equal(t, "qdrant", cfg.Vector.Backend)
	assert.Equal(t, "docs_v1", cfg.Vector.Collection)
	assert.Equal(t, 768, cfg.Vector.Size)
	assert.Equal(t, 4, cfg.RAG.TopK)
	assert.Equal(t, 1000, cfg.Ingest.ChunkSize)
	assert.Equal(t, "fixed", cfg.Ingest.ChunkStrategy)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("EMBEDDING_MODEL", "text-embedding-005")
	t.Setenv("TOP_K", "8")
	t.Setenv("VECTOR_BACKEND", "pgvector")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "text-embedding-005", cfg.Embedding.Model)
	assert.Equal(t, 8, cfg.RAG.TopK)
	assert.Equal(t, "pgvector", cfg.Vector.Backend)
}

func TestLoadBadInt(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	_, err := Load()
	assert.ErrorContains(t, err, "invalid SERVER_PORT")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			LLM: LLMConfig{
				DefaultProvider: "gemini",
				GeminiKey:       "key",
			},
			Embedding: EmbeddingConfig{Provider: "gemini"},
			Vector: VectorConfig{
				Backend:   "qdrant",
				QdrantURL: "http://localhost:6333",
			},
		}
	}

	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing gemini key", func(t *testing.T) {
		cfg := base()
		cfg.LLM.GeminiKey = ""
		assert.ErrorContains(t, cfg.Validate(), "GEMINI_API_KEY")
	})

	t.Run("missing qdrant url", func(t *testing.T) {
		cfg := base()
		cfg.Vector.QdrantURL = ""
		assert.ErrorContains(t, cfg.Validate(), "QDRANT_URL")
	})

	t.Run("pgvector requires a database url", func(t *testing.T) {
		cfg := base()
		cfg.Vector.Backend = "pgvector"
		assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := base()
		cfg.Vector.Backend = "chroma"
		assert.ErrorContains(t, cfg.Validate(), "unknown VECTOR_BACKEND")
	})

	t.Run("ollama-only setup needs no keys", func(t *testing.T) {
		cfg := base()
		cfg.LLM = LLMConfig{DefaultProvider: "ollama", OllamaURL: "http://localhost:11434"}
		cfg.Embedding.Provider = "ollama"
		assert.NoError(t, cfg.Validate())
	})
}

func TestAddr(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Host: "127.0.0.1", Port: 8081}}
	assert.Equal(t, "127.0.0.1:8081", cfg.Addr())
}

func TestSplitCSV(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitCSV("a, b"))
	assert.Equal(t, []string{"*"}, splitCSV("*"))
	assert.Empty(t, splitCSV(" , "))
}
