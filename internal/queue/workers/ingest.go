package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/edurag/ragserver/internal/ingest"
	"github.com/edurag/ragserver/internal/queue"
)

type IngestWorker struct {
	ingestor *ingest.Ingestor
}

func NewIngestWorker(in *ingest.Ingestor) *IngestWorker {
	return &IngestWorker{ingestor: in}
}

func (w *IngestWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.DocsIngestPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	slog.Info("processing ingest task", "path", payload.Path)

	res, err := w.ingestor.Run(ctx, payload.Path)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", payload.Path, err)
	}

	slog.Info("ingest task done",
		"path", payload.Path,
		"files", res.Files,
		"chunks", res.Chunks,
		"failed", len(res.Failed),
	)
	return nil
}
