package testutils

import (
	"context"
	"fmt"
	"hash/fnv"
)

// MockEmbedder is a test embedder that returns deterministic fixed-length
// embeddings derived from the input text.
type MockEmbedder struct {
	// Dimensions is the length of generated vectors. Defaults to 4.
	Dimensions int

	// Embeddings overrides the generated vector for specific inputs.
	Embeddings map[string][]float32

	// FailOn causes Embed to return an error when the input text matches.
	FailOn string

	// Calls records every embedded input, in order.
	Calls []string
}

func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 4
	}
	return &MockEmbedder{
		Dimensions: dimensions,
		Embeddings: make(map[string][]float32),
	}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.FailOn != "" && text == m.FailOn {
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	}

	m.Calls = append(m.Calls, text)

	if emb, ok := m.Embeddings[text]; ok {
		return emb, nil
	}

	// Deterministic pseudo-embedding: same text, same vector.
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum32()

	vec := make([]float32, m.Dimensions)
	for i := range vec {
		seed = seed*1664525 + 1013904223
		vec[i] = float32(seed%1000)/1000.0 - 0.5
	}
	return vec, nil
}

func (m *MockEmbedder) Close() error {
	return nil
}
