package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	LLM       LLMConfig
	Embedding EmbeddingConfig
	Vector    VectorConfig
	Redis     RedisConfig
	Ingest    IngestConfig
	RAG       RAGConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type AuthConfig struct {
	// JWTSecret enables bearer-token auth when non-empty.
	JWTSecret string
}

type LLMConfig struct {
	GeminiKey        string
	OpenAIKey        string
	AnthropicKey     string
	OllamaURL        string
	DefaultProvider  string
	DefaultModel     string
	FallbackProvider string
	MaxRetries       int
}

type EmbeddingConfig struct {
	Provider string
	Model    string
}

type VectorConfig struct {
	Backend     string // "qdrant" or "pgvector"
	QdrantURL   string
	QdrantKey   string
	Collection  string
	Size        int
	DatabaseURL string
	MaxConns    int
	MinConns    int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type IngestConfig struct {
	BasePath      string
	ChunkSize     int
	ChunkOverlap  int
	ChunkStrategy string
}

type RAGConfig struct {
	TopK int
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	size, err := getEnvInt("VECTOR_SIZE", 768)
	if err != nil {
		return nil, fmt.Errorf("invalid VECTOR_SIZE: %w", err)
	}

	maxConns, err := getEnvInt("DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	minConns, err := getEnvInt("DB_MIN_CONNS", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxRetries, err := getEnvInt("LLM_MAX_RETRIES", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}

	topK, err := getEnvInt("TOP_K", 4)
	if err != nil {
		return nil, fmt.Errorf("invalid TOP_K: %w", err)
	}

	chunkSize, err := getEnvInt("CHUNK_SIZE", 1000)
	if err != nil {
		return nil, fmt.Errorf("invalid CHUNK_SIZE: %w", err)
	}

	chunkOverlap, err := getEnvInt("CHUNK_OVERLAP", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid CHUNK_OVERLAP: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           port,
			AllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		LLM: LLMConfig{
			GeminiKey:        getEnv("GEMINI_API_KEY", ""),
			OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			OllamaURL:        getEnv("OLLAMA_URL", ""),
			DefaultProvider:  getEnv("LLM_PROVIDER", "gemini"),
			DefaultModel:     getEnv("LLM_MODEL", "gemini-2.5-flash"),
			FallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", ""),
			MaxRetries:       maxRetries,
		},
		Embedding: EmbeddingConfig{
			Provider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			Model:    getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		},
		Vector: VectorConfig{
			Backend:     getEnv("VECTOR_BACKEND", "qdrant"),
			QdrantURL:   getEnv("QDRANT_URL", ""),
			QdrantKey:   getEnv("QDRANT_API_KEY", ""),
			Collection:  getEnv("QDRANT_COLLECTION", "docs_v1"),
			Size:        size,
			DatabaseURL: getEnv("DATABASE_URL", ""),
			MaxConns:    maxConns,
			MinConns:    minConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Ingest: IngestConfig{
			BasePath:      getEnv("BASE_DOCS_PATH", "./docs"),
			ChunkSize:     chunkSize,
			ChunkOverlap:  chunkOverlap,
			ChunkStrategy: getEnv("CHUNK_STRATEGY", "fixed"),
		},
		RAG: RAGConfig{
			TopK: topK,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string

	if c.LLM.DefaultProvider == "gemini" || c.Embedding.Provider == "gemini" {
		if c.LLM.GeminiKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	}
	if c.LLM.DefaultProvider == "openai" || c.Embedding.Provider == "openai" {
		if c.LLM.OpenAIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	}
	if c.LLM.DefaultProvider == "anthropic" && c.LLM.AnthropicKey == "" {
		missing = append(missing, "ANTHROPIC_API_KEY")
	}

	switch c.Vector.Backend {
	case "qdrant":
		if c.Vector.QdrantURL == "" {
			missing = append(missing, "QDRANT_URL")
		}
	case "pgvector":
		if c.Vector.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown VECTOR_BACKEND %q", c.Vector.Backend)
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
