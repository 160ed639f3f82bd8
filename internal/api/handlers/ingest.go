package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/edurag/ragserver/internal/queue"
)

type IngestHandler struct {
	queue       *queue.Client
	defaultPath string
}

func NewIngestHandler(qc *queue.Client, defaultPath string) *IngestHandler {
	return &IngestHandler{queue: qc, defaultPath: defaultPath}
}

type ingestRequest struct {
	Path string `json:"path,omitempty"`
}

// Enqueue schedules an asynchronous ingestion run over the given path (or
// the configured docs path).
func (h *IngestHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "ingestion queue not configured"})
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	path := strings.TrimSpace(req.Path)
	if path == "" {
		path = h.defaultPath
	}

	if err := h.queue.EnqueueDocsIngest(queue.DocsIngestPayload{Path: path}); err != nil {
		slog.Error("enqueue ingest failed", "path", path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to enqueue ingestion"})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "path": path})
}
