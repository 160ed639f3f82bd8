package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/edurag/ragserver/internal/auth"
	"github.com/edurag/ragserver/internal/rag"
)

type RAGHandler struct {
	svc *rag.Service
}

func NewRAGHandler(svc *rag.Service) *RAGHandler {
	return &RAGHandler{svc: svc}
}

func (h *RAGHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req rag.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.UserID == "" {
		req.UserID = auth.UserIDFromContext(r.Context())
	}

	resp, err := h.svc.Query(r.Context(), req)
	if err != nil {
		writeRAGError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

func (h *RAGHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	results, err := h.svc.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		writeRAGError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results, "count": len(results)})
}

func writeRAGError(w http.ResponseWriter, err error) {
	var ve *rag.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Msg})
		return
	}

	var ue *rag.UpstreamError
	if errors.As(err, &ue) {
		slog.Error("upstream failure", "stage", ue.Stage, "error", ue.Err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": ue.Error()})
		return
	}

	slog.Error("query failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
