package services

import (
	"context"
	"sync"
)

type fakeLLM struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	prompts  []string
	opts     []GenerationOptions
	provider string
}

func (f *fakeLLM) GenerateText(_ context.Context, prompt string, opts GenerationOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	f.opts = append(f.opts, opts)

	if call < len(f.errs) && f.errs[call] != nil {
		return "", f.errs[call]
	}
	if call < len(f.replies) {
		return f.replies[call], nil
	}
	if len(f.replies) > 0 {
		return f.replies[len(f.replies)-1], nil
	}
	return "", nil
}

func (f *fakeLLM) Provider() string {
	if f.provider == "" {
		return "fake"
	}
	return f.provider
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeEmbedder struct {
	err   error
	texts []string
}

func (f *fakeEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{float32(len(text)), 1}, nil
}

type storedChunk struct {
	source string
	index  int
	text   string
}

type fakeCatalog struct {
	chunks    []storedChunk
	deleted   []string
	results   []SearchResult
	searchErr error
	upsertErr error
}

func (f *fakeCatalog) InitCollection(context.Context) error { return nil }

func (f *fakeCatalog) UpsertChunk(_ context.Context, source string, index int, text string, _ []float32) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.chunks = append(f.chunks, storedChunk{source: source, index: index, text: text})
	return nil
}

func (f *fakeCatalog) SearchSimilar(context.Context, []float32, int) ([]SearchResult, error) {
	return f.results, f.searchErr
}

func (f *fakeCatalog) DeleteSource(_ context.Context, source string) error {
	f.deleted = append(f.deleted, source)
	return nil
}
