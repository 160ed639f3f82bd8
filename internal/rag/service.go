package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/edurag/ragserver/internal/llm"
	"github.com/edurag/ragserver/internal/vectorstore"
)

const systemPrompt = "You are an educational RAG assistant. " +
	"You MUST answer ONLY using the provided context. " +
	"If the answer is not in the context, respond with: " +
	"'The context does not contain information about this question.'"

const snippetLimit = 300

// Embedder produces a query vector for a single text.
type Embedder interface {
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
}

// Generator produces an answer from a prompt. llm.Gateway satisfies it.
type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error)
}

type Service struct {
	store    vectorstore.Store
	embedder Embedder
	gen      Generator
	topK     int
	provider string
	model    string
}

func NewService(store vectorstore.Store, embedder Embedder, gen Generator, topK int, provider, model string) *Service {
	if topK <= 0 {
		topK = 4
	}
	return &Service{
		store:    store,
		embedder: embedder,
		gen:      gen,
		topK:     topK,
		provider: provider,
		model:    model,
	}
}

type QueryRequest struct {
	UserID       string `json:"user_id,omitempty"`
	Text         string `json:"text,omitempty"`
	Question     string `json:"question"`
	OnlySelected bool   `json:"only_selected"`
	TopK         int    `json:"top_k,omitempty"`
}

type Source struct {
	Path    string  `json:"path"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score,omitempty"`
}

type QueryResponse struct {
	Answer       string   `json:"answer"`
	Sources      []Source `json:"sources"`
	ContextCount int      `json:"context_count"`
}

// contextEntry is the canonical per-query retrieval unit, whether it came
// from the vector store or from user-selected text.
type contextEntry struct {
	path  string
	text  string
	score float64
}

func (s *Service) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, &ValidationError{Msg: "question cannot be empty"}
	}

	var contexts []contextEntry

	if req.OnlySelected {
		if strings.TrimSpace(req.Text) == "" {
			return nil, &ValidationError{Msg: "text must be provided when only_selected is true"}
		}
		contexts = []contextEntry{{path: "Selected Text", text: req.Text}}
	} else {
		results, err := s.retrieve(ctx, req.Question, req.TopK)
		if err != nil {
			return nil, err
		}

		for _, r := range results {
			contexts = append(contexts, contextEntry{
				path:  r.Payload.Path,
				text:  r.Payload.Text,
				score: r.Score,
			})
		}

		if len(contexts) == 0 {
			// Keep answering even when retrieval finds nothing; the system
			// prompt forces an explicit "not in context" reply.
			contexts = []contextEntry{{path: "No results found", text: ""}}
		}
	}

	contextText, sources := buildContext(contexts)

	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s\n\nAnswer:", contextText, req.Question)
	resp, err := s.gen.Generate(ctx, llm.GenerateRequest{
		Provider: s.provider,
		Model:    s.model,
		System:   systemPrompt,
		Prompt:   prompt,
	})
	if err != nil {
		return nil, &UpstreamError{Stage: "generation", Err: err}
	}

	return &QueryResponse{
		Answer:       resp.Text,
		Sources:      sources,
		ContextCount: len(contexts),
	}, nil
}

// Search exposes raw retrieval without generation.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]vectorstore.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ValidationError{Msg: "query cannot be empty"}
	}
	return s.retrieve(ctx, query, topK)
}

func (s *Service) retrieve(ctx context.Context, query string, topK int) ([]vectorstore.SearchResult, error) {
	if topK <= 0 {
		topK = s.topK
	}

	vec, err := s.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, &UpstreamError{Stage: "embedding", Err: err}
	}

	results, err := s.store.Search(ctx, vec, topK)
	if err != nil {
		return nil, &UpstreamError{Stage: "search", Err: err}
	}
	return results, nil
}

// buildContext renders the prompt context block and the user-facing source
// list. Entries with empty text are skipped; if nothing remains, fixed
// placeholders are substituted so generation still has a well-formed prompt.
func buildContext(contexts []contextEntry) (string, []Source) {
	var blocks []string
	var sources []Source

	for i, c := range contexts {
		if strings.TrimSpace(c.text) == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Source %d (path: %s):\n%s\n---\n", i+1, c.path, c.text))
		sources = append(sources, Source{
			Path:    c.path,
			Snippet: truncate(c.text, snippetLimit),
			Score:   c.score,
		})
	}

	if len(blocks) == 0 {
		return "No context provided.", []Source{{Path: "No sources", Snippet: "No relevant documents found"}}
	}

	return strings.Join(blocks, "\n"), sources
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
