package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkShortTextIsSingleChunk(t *testing.T) {
	chunks := NewTextChunker(100, 10).Chunk("Docker Mastery\n\nUdemy course on containers.")

	assert.Equal(t, []string{"Docker Mastery\n\nUdemy course on containers."}, chunks)
}

func TestChunkRespectsMaxSize(t *testing.T) {
	para := strings.Repeat("word ", 30)
	text := strings.Join([]string{para, para, para, para}, "\n\n")

	chunks := NewTextChunker(200, 0).Chunk(text)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 200)
	}
}

func TestChunkOverlapCarriesTail(t *testing.T) {
	text := "First paragraph about Kubernetes.\n\nSecond paragraph about Terraform."

	chunks := NewTextChunker(40, 10).Chunk(text)

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[1], lastRunes(chunks[0], 10)))
	assert.Contains(t, chunks[1], "Terraform")
}

func TestChunkLongParagraphSplitsSentences(t *testing.T) {
	text := "Learn Go. Learn Docker! Learn Kubernetes? Learn AWS."

	chunks := NewTextChunker(20, 0).Chunk(text)

	assert.Equal(t, []string{"Learn Go.", "Learn Docker!", "Learn Kubernetes?", "Learn AWS."}, chunks)
}

func TestNewTextChunkerDefaults(t *testing.T) {
	tc := NewTextChunker(0, -5).(*textChunker)
	assert.Equal(t, DefaultChunkSize, tc.maxSize)
	assert.Equal(t, 0, tc.overlap)

	tc = NewTextChunker(100, 100).(*textChunker)
	assert.Equal(t, 25, tc.overlap)
}
