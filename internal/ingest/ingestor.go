package ingest

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/edurag/ragserver/internal/document"
	"github.com/edurag/ragserver/internal/vectorstore"
	"github.com/edurag/ragserver/pkg/chunker"
)

// Embedder turns chunk texts into vectors, one batched call per file.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type Ingestor struct {
	embedder Embedder
	store    vectorstore.Store
	opts     chunker.Options
}

type Result struct {
	Files  int
	Chunks int
	Failed []string
}

func New(embedder Embedder, store vectorstore.Store, opts chunker.Options) *Ingestor {
	if opts.ChunkSize <= 0 {
		opts = chunker.DefaultOptions()
	}
	return &Ingestor{embedder: embedder, store: store, opts: opts}
}

// Run walks basePath and ingests every supported document. A failing file is
// logged, recorded in the result and skipped; the walk continues.
func (in *Ingestor) Run(ctx context.Context, basePath string) (*Result, error) {
	var files []string
	err := filepath.WalkDir(basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && document.Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", basePath, err)
	}

	slog.Info("starting ingestion", "base_path", basePath, "files", len(files))

	res := &Result{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		n, err := in.ingestFile(ctx, path)
		if err != nil {
			slog.Error("skipping file", "path", path, "error", err)
			res.Failed = append(res.Failed, path)
			continue
		}

		res.Files++
		res.Chunks += n
		slog.Info("ingested file", "path", path, "chunks", n)
	}

	return res, nil
}

// IngestFile ingests a single document and returns the number of chunks
// written.
func (in *Ingestor) IngestFile(ctx context.Context, path string) (int, error) {
	return in.ingestFile(ctx, path)
}

func (in *Ingestor) ingestFile(ctx context.Context, path string) (int, error) {
	text, err := document.Extract(path)
	if err != nil {
		return 0, fmt.Errorf("extract: %w", err)
	}

	chunks := chunker.Split(text, in.opts)
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	embeddings, err := in.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("got %d embeddings for %d chunks", len(embeddings), len(chunks))
	}

	records := make([]vectorstore.Record, len(chunks))
	for i, c := range chunks {
		records[i] = vectorstore.Record{
			ID:     ChunkID(path, c.Index),
			Vector: embeddings[i],
			Payload: vectorstore.Payload{
				DocID: fmt.Sprintf("%s_%d", filepath.Base(path), c.Index),
				Path:  path,
				Text:  c.Content,
			},
		}
	}

	if err := in.store.Upsert(ctx, records); err != nil {
		return 0, fmt.Errorf("upsert: %w", err)
	}

	return len(records), nil
}

// ChunkID derives a stable id from the source path and chunk index, so
// re-ingesting a document overwrites its chunks instead of duplicating them.
func ChunkID(path string, index int) string {
	name := fmt.Sprintf("%s#%d", path, index)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
