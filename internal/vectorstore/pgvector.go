package vectorstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PgVectorStore persists records in Postgres with the pgvector extension,
// as an alternative to Qdrant for deployments that already run Postgres.
type PgVectorStore struct {
	db   *pgxpool.Pool
	size int
}

func NewPgVectorStore(db *pgxpool.Pool, size int) *PgVectorStore {
	return &PgVectorStore{db: db, size: size}
}

func (s *PgVectorStore) EnsureCollection(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	_, err := s.db.Exec(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			doc_id TEXT NOT NULL,
			path TEXT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, s.size))
	if err != nil {
		return fmt.Errorf("create chunks table: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`CREATE INDEX IF NOT EXISTS chunks_embedding_idx
		 ON chunks USING hnsw (embedding vector_cosine_ops)`)
	if err != nil {
		return fmt.Errorf("create embedding index: %w", err)
	}

	var dims int
	err = s.db.QueryRow(ctx,
		`SELECT atttypmod FROM pg_attribute
		 WHERE attrelid = 'chunks'::regclass AND attname = 'embedding'`,
	).Scan(&dims)
	if err != nil {
		return fmt.Errorf("inspect chunks table: %w", err)
	}
	if dims > 0 && dims != s.size {
		return fmt.Errorf("chunks table has vector size %d, expected %d", dims, s.size)
	}
	return nil
}

func (s *PgVectorStore) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		embedding := pgvector.NewVector(r.Vector)
		_, err := tx.Exec(ctx,
			`INSERT INTO chunks (id, doc_id, path, content, embedding)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO UPDATE SET doc_id = $2, path = $3, content = $4, embedding = $5`,
			r.ID, r.Payload.DocID, r.Payload.Path, r.Payload.Text, embedding,
		)
		if err != nil {
			return fmt.Errorf("upsert chunk %s: %w", r.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PgVectorStore) Search(ctx context.Context, vector []float32, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		topK = 4
	}

	embedding := pgvector.NewVector(vector)

	rows, err := s.db.Query(ctx,
		`SELECT doc_id, path, content, 1 - (embedding <=> $1) AS score
		 FROM chunks
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		embedding, topK,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Payload.DocID, &r.Payload.Path, &r.Payload.Text, &r.Score); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
