package services

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// TextChunker splits catalog documents into embedding-sized pieces.
type TextChunker interface {
	Chunk(text string) []string
}

type textChunker struct {
	maxSize int
	overlap int
}

func NewTextChunker(maxSize, overlap int) TextChunker {
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize / 4
	}
	return &textChunker{maxSize: maxSize, overlap: overlap}
}

// Chunk packs paragraphs into chunks of at most maxSize runes. Paragraphs
// longer than that are broken on sentence boundaries. Each new chunk starts
// with the tail of the previous one.
func (tc *textChunker) Chunk(text string) []string {
	var (
		chunks  []string
		current strings.Builder
	)

	flush := func() {
		chunks = append(chunks, current.String())
		current.Reset()
		current.WriteString(lastRunes(chunks[len(chunks)-1], tc.overlap))
	}

	appendPiece := func(piece, sep string) {
		if current.Len() > 0 && utf8.RuneCountInString(current.String())+utf8.RuneCountInString(piece)+len(sep) > tc.maxSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
	}

	for _, para := range strings.Split(normalizeNewlines(text), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= tc.maxSize {
			appendPiece(para, "\n\n")
			continue
		}

		for _, sentence := range splitSentences(para) {
			appendPiece(sentence, " ")
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func normalizeNewlines(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// splitSentences keeps the terminating punctuation with each sentence.
func splitSentences(text string) []string {
	var (
		sentences []string
		start     int
	)
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
