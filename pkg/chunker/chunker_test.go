package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFixed(t *testing.T) {
	t.Run("empty input yields no chunks", func(t *testing.T) {
		assert.Empty(t, Split("", DefaultOptions()))
	})

	t.Run("short input yields a single chunk", func(t *testing.T) {
		chunks := Split("hello world", DefaultOptions())
		require.Len(t, chunks, 1)
		assert.Equal(t, "hello world", chunks[0].Content)
		assert.Equal(t, 0, chunks[0].Index)
	})

	t.Run("chunk count is ceil of length over size", func(t *testing.T) {
		opts := Options{ChunkSize: 1000, Strategy: "fixed"}

		cases := []struct {
			length int
			want   int
		}{
			{999, 1},
			{1000, 1},
			{1001, 2},
			{2500, 3},
			{3000, 3},
		}
		for _, tc := range cases {
			text := strings.Repeat("a", tc.length)
			chunks := Split(text, opts)
			assert.Len(t, chunks, tc.want, "length %d", tc.length)
		}
	})

	t.Run("concatenation reproduces the input", func(t *testing.T) {
		text := strings.Repeat("abcdefghij", 253) // 2530 chars
		chunks := Split(text, Options{ChunkSize: 1000, Strategy: "fixed"})
		require.Len(t, chunks, 3)

		var sb strings.Builder
		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
			sb.WriteString(c.Content)
		}
		assert.Equal(t, text, sb.String())
	})

	t.Run("every chunk except the last is exactly chunk size", func(t *testing.T) {
		text := strings.Repeat("x", 2345)
		chunks := Split(text, Options{ChunkSize: 1000, Strategy: "fixed"})
		require.Len(t, chunks, 3)
		assert.Equal(t, 1000, utf8.RuneCountInString(chunks[0].Content))
		assert.Equal(t, 1000, utf8.RuneCountInString(chunks[1].Content))
		assert.Equal(t, 345, utf8.RuneCountInString(chunks[2].Content))
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		text := strings.Repeat("é", 15)
		chunks := Split(text, Options{ChunkSize: 10, Strategy: "fixed"})
		require.Len(t, chunks, 2)
		assert.Equal(t, 10, utf8.RuneCountInString(chunks[0].Content))
		assert.Equal(t, 5, utf8.RuneCountInString(chunks[1].Content))
		assert.Equal(t, text, chunks[0].Content+chunks[1].Content)
	})

	t.Run("overlap repeats the tail of the previous chunk", func(t *testing.T) {
		text := "abcdefghij"
		chunks := Split(text, Options{ChunkSize: 4, Overlap: 2, Strategy: "fixed"})
		require.NotEmpty(t, chunks)
		assert.Equal(t, "abcd", chunks[0].Content)
		assert.Equal(t, "cdef", chunks[1].Content)
	})

	t.Run("zero chunk size falls back to default", func(t *testing.T) {
		chunks := Split("some text", Options{})
		require.Len(t, chunks, 1)
		assert.Equal(t, "some text", chunks[0].Content)
	})
}

func TestSplitRecursive(t *testing.T) {
	t.Run("prefers paragraph boundaries", func(t *testing.T) {
		text := strings.Repeat("a", 40) + "\n\n" + strings.Repeat("b", 40)
		chunks := Split(text, Options{ChunkSize: 50, Strategy: "recursive"})
		require.Len(t, chunks, 2)
		assert.Equal(t, strings.Repeat("a", 40), chunks[0].Content)
		assert.Equal(t, strings.Repeat("b", 40), chunks[1].Content)
	})

	t.Run("short text is one chunk", func(t *testing.T) {
		chunks := Split("one paragraph", Options{ChunkSize: 100, Strategy: "recursive"})
		require.Len(t, chunks, 1)
		assert.Equal(t, "one paragraph", chunks[0].Content)
	})

	t.Run("indices are sequential", func(t *testing.T) {
		text := strings.Repeat("para\n\n", 30)
		chunks := Split(text, Options{ChunkSize: 20, Strategy: "recursive"})
		for i, c := range chunks {
			assert.Equal(t, i, c.Index)
		}
	})
}

func TestSplitSentence(t *testing.T) {
	t.Run("groups whole sentences", func(t *testing.T) {
		text := "First sentence. Second sentence. Third sentence."
		chunks := Split(text, Options{ChunkSize: 35, Strategy: "sentence"})
		require.NotEmpty(t, chunks)
		for _, c := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(c.Content), 35)
		}
		joined := strings.Join([]string{chunks[0].Content, chunks[len(chunks)-1].Content}, " ")
		assert.Contains(t, joined, "First sentence.")
		assert.Contains(t, joined, "Third sentence.")
	})

	t.Run("single long sentence stays intact", func(t *testing.T) {
		text := "no terminator here just words"
		chunks := Split(text, Options{ChunkSize: 10, Strategy: "sentence"})
		require.Len(t, chunks, 1)
		assert.Equal(t, text, chunks[0].Content)
	})
}
