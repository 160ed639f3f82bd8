package vectorstore

import "context"

// Payload is the metadata stored alongside every vector. The JSON field
// names are part of the persisted collection format.
type Payload struct {
	DocID string `json:"doc_id_string"`
	Path  string `json:"doc_path"`
	Text  string `json:"text"`
}

type Record struct {
	ID      string
	Vector  []float32
	Payload Payload
}

type SearchResult struct {
	Score   float64 `json:"score"`
	Payload Payload `json:"payload"`
}

type Store interface {
	// EnsureCollection creates the collection if absent and verifies the
	// vector dimensionality of an existing one. Idempotent.
	EnsureCollection(ctx context.Context) error
	Upsert(ctx context.Context, records []Record) error
	Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
}
