package chunker

import (
	"strings"
	"unicode/utf8"
)

type Options struct {
	ChunkSize int    // target chunk size in characters (runes)
	Overlap   int    // overlap between consecutive chunks, fixed strategy only
	Strategy  string // "fixed", "recursive", "sentence"
}

type Chunk struct {
	Content string
	Index   int
}

func DefaultOptions() Options {
	return Options{
		ChunkSize: 1000,
		Overlap:   0,
		Strategy:  "fixed",
	}
}

// Split cuts text into chunks according to opts.
//
// With the fixed strategy and zero overlap every chunk except the last is
// exactly ChunkSize runes and the concatenation of all chunks reproduces
// the input text.
func Split(text string, opts Options) []Chunk {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 1000
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}

	switch opts.Strategy {
	case "recursive":
		return splitRecursiveChunks(text, opts)
	case "sentence":
		return splitSentenceChunks(text, opts)
	default:
		return splitFixed(text, opts)
	}
}

func splitFixed(text string, opts Options) []Chunk {
	if text == "" {
		return nil
	}

	step := opts.ChunkSize - opts.Overlap
	if step <= 0 {
		step = opts.ChunkSize
	}

	var chunks []Chunk
	runes := []rune(text)
	idx := 0

	for start := 0; start < len(runes); start += step {
		end := start + opts.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{Content: string(runes[start:end]), Index: idx})
		idx++
		if end == len(runes) {
			break
		}
	}

	return chunks
}

func splitRecursiveChunks(text string, opts Options) []Chunk {
	separators := []string{"\n\n", "\n", ". ", " "}

	var chunks []Chunk
	idx := 0
	for _, part := range splitBySeparators(text, separators, opts.ChunkSize) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, Chunk{Content: part, Index: idx})
		idx++
	}
	return chunks
}

func splitBySeparators(text string, separators []string, chunkSize int) []string {
	if utf8.RuneCountInString(text) <= chunkSize {
		return []string{text}
	}

	if len(separators) == 0 {
		var result []string
		runes := []rune(text)
		for i := 0; i < len(runes); i += chunkSize {
			end := i + chunkSize
			if end > len(runes) {
				end = len(runes)
			}
			result = append(result, string(runes[i:end]))
		}
		return result
	}

	sep := separators[0]
	parts := strings.Split(text, sep)
	var result []string
	var current strings.Builder

	for _, part := range parts {
		if current.Len() > 0 && utf8.RuneCountInString(current.String()+sep+part) > chunkSize {
			result = append(result, splitBySeparators(current.String(), separators[1:], chunkSize)...)
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(part)
	}

	if current.Len() > 0 {
		result = append(result, splitBySeparators(current.String(), separators[1:], chunkSize)...)
	}

	return result
}

func splitSentenceChunks(text string, opts Options) []Chunk {
	sentences := splitSentences(text)

	var chunks []Chunk
	var current strings.Builder
	idx := 0

	for _, s := range sentences {
		if current.Len() > 0 && utf8.RuneCountInString(current.String()+s) > opts.ChunkSize {
			chunks = append(chunks, Chunk{Content: strings.TrimSpace(current.String()), Index: idx})
			idx++
			current.Reset()
		}
		current.WriteString(s)
	}

	if strings.TrimSpace(current.String()) != "" {
		chunks = append(chunks, Chunk{Content: strings.TrimSpace(current.String()), Index: idx})
	}

	return chunks
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		sentences = append(sentences, current.String())
	}

	return sentences
}
