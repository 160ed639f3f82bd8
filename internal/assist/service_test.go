package assist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edurag/ragserver/internal/llm"
)

type fakeGenerator struct {
	lastReq llm.GenerateRequest
	text    string
	err     error
}

func (f *fakeGenerator) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.text}, nil
}

func TestSummarize(t *testing.T) {
	t.Run("bullet mode", func(t *testing.T) {
		gen := &fakeGenerator{text: "- point"}
		svc := NewService(gen, "gemini", "gemini-2.5-flash")

		summary, err := svc.Summarize(context.Background(), "long text", true)
		require.NoError(t, err)
		assert.Equal(t, "- point", summary)
		assert.Contains(t, gen.lastReq.System, "bullet points")
		assert.Contains(t, gen.lastReq.Prompt, "long text")
		assert.Equal(t, "gemini", gen.lastReq.Provider)
	})

	t.Run("paragraph mode", func(t *testing.T) {
		gen := &fakeGenerator{text: "a paragraph"}
		svc := NewService(gen, "gemini", "gemini-2.5-flash")

		_, err := svc.Summarize(context.Background(), "long text", false)
		require.NoError(t, err)
		assert.Contains(t, gen.lastReq.System, "short paragraph")
	})

	t.Run("generation failure is wrapped", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("down")}
		svc := NewService(gen, "gemini", "gemini-2.5-flash")

		_, err := svc.Summarize(context.Background(), "text", true)
		assert.ErrorContains(t, err, "summarize")
	})
}

func TestAnswer(t *testing.T) {
	gen := &fakeGenerator{text: "42"}
	svc := NewService(gen, "gemini", "gemini-2.5-flash")

	answer, err := svc.Answer(context.Background(), "what is the answer?")
	require.NoError(t, err)
	assert.Equal(t, "42", answer)
	assert.Contains(t, gen.lastReq.Prompt, "what is the answer?")
	assert.Contains(t, gen.lastReq.Prompt, "concisely")
	assert.Empty(t, gen.lastReq.System)
}

func TestTranslateToUrdu(t *testing.T) {
	t.Run("uses the translation system prompt", func(t *testing.T) {
		gen := &fakeGenerator{text: "ترجمہ"}
		svc := NewService(gen, "gemini", "gemini-2.5-flash")

		out, err := svc.TranslateToUrdu(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, "ترجمہ", out)
		assert.Contains(t, gen.lastReq.System, "Urdu")
		assert.Contains(t, gen.lastReq.Prompt, "hello")
	})

	t.Run("generation failure is wrapped", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("down")}
		svc := NewService(gen, "gemini", "gemini-2.5-flash")

		_, err := svc.TranslateToUrdu(context.Background(), "hello")
		assert.ErrorContains(t, err, "translate")
	})
}
