package assist

import (
	"context"
	"fmt"

	"github.com/edurag/ragserver/internal/llm"
)

// Service holds the prompt-only pipelines: summarization, direct QA and
// translation. None of them touch the vector store.
type Service struct {
	gen      Generator
	provider string
	model    string
}

type Generator interface {
	Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error)
}

func NewService(gen Generator, provider, model string) *Service {
	return &Service{gen: gen, provider: provider, model: model}
}

func (s *Service) Summarize(ctx context.Context, text string, bullets bool) (string, error) {
	instruction := "Summarize the text in a short paragraph."
	if bullets {
		instruction = "Summarize the text in concise bullet points."
	}

	prompt := fmt.Sprintf("Text:\n%s\n\nSummary:", text)
	resp, err := s.gen.Generate(ctx, llm.GenerateRequest{
		Provider: s.provider,
		Model:    s.model,
		System:   "You are an educational summarizer agent. " + instruction,
		Prompt:   prompt,
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return resp.Text, nil
}

func (s *Service) Answer(ctx context.Context, question string) (string, error) {
	resp, err := s.gen.Generate(ctx, llm.GenerateRequest{
		Provider: s.provider,
		Model:    s.model,
		Prompt:   fmt.Sprintf("Answer the question concisely:\n\n%s", question),
	})
	if err != nil {
		return "", fmt.Errorf("answer: %w", err)
	}
	return resp.Text, nil
}

func (s *Service) TranslateToUrdu(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Text:\n%s\n\nUrdu Translation:", text)
	resp, err := s.gen.Generate(ctx, llm.GenerateRequest{
		Provider: s.provider,
		Model:    s.model,
		System: "Translate the following content into Urdu. " +
			"Keep formatting clean. Do NOT add anything extra, only translate the text.",
		Prompt: prompt,
	})
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return resp.Text, nil
}
