package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/edurag/ragserver/internal/assist"
)

type AssistHandler struct {
	svc *assist.Service
}

func NewAssistHandler(svc *assist.Service) *AssistHandler {
	return &AssistHandler{svc: svc}
}

type summarizeRequest struct {
	Text    string `json:"text"`
	Bullets *bool  `json:"bullets,omitempty"`
}

func (h *AssistHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text cannot be empty"})
		return
	}

	bullets := true
	if req.Bullets != nil {
		bullets = *req.Bullets
	}

	summary, err := h.svc.Summarize(r.Context(), req.Text, bullets)
	if err != nil {
		slog.Error("summarize failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to summarize text"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

type qaRequest struct {
	Question string `json:"question"`
}

func (h *AssistHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req qaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question cannot be empty"})
		return
	}

	answer, err := h.svc.Answer(r.Context(), req.Question)
	if err != nil {
		slog.Error("qa failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to answer question"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

type translateRequest struct {
	Text string `json:"text"`
}

func (h *AssistHandler) TranslateUrdu(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text cannot be empty"})
		return
	}

	translation, err := h.svc.TranslateToUrdu(r.Context(), req.Text)
	if err != nil {
		slog.Error("translate failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to translate text"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"translation": translation})
}
