// Package embeddings defines the text embedding contract shared by the
// ingestion pipeline and the retrieval service. One embedding model is
// pinned per index for its lifetime; mixing models silently produces
// meaningless similarity scores.
package embeddings

import (
	"context"
	"errors"
)

// ErrEmbedding is returned when embedding generation fails.
var ErrEmbedding = errors.New("embedding failed")

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a fixed-length vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
