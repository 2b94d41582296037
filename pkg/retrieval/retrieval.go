// Package retrieval provides semantic lookup over the document store. It is
// used by both the operator CLI and the answer service.
package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/harborworks/trawl/pkg/embeddings"
	"github.com/harborworks/trawl/pkg/store"
)

// DefaultTopK applies when a caller passes a non-positive topK.
const DefaultTopK = 5

// Result is a single retrieval hit.
type Result struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	URL      string  `json:"url"`
	Datetime string  `json:"datetime"`
	Score    float32 `json:"score"`
}

// Output is the result of one retrieval call.
type Output struct {
	Query   string   `json:"query"`
	Results []Result `json:"results"`
	Count   int      `json:"count"`
}

// Searcher embeds query text and delegates scoring to the store driver.
// Each call is independent and stateless.
type Searcher struct {
	embedder   embeddings.Embedder
	store      store.Driver
	dimensions int
	logger     *zap.Logger
}

// NewSearcher creates a retrieval service. The embedder must be the same
// model the index was ingested with; dimensions guards against a drifted
// model configuration producing silently meaningless scores.
func NewSearcher(embedder embeddings.Embedder, driver store.Driver, dimensions int, logger *zap.Logger) *Searcher {
	return &Searcher{
		embedder:   embedder,
		store:      driver,
		dimensions: dimensions,
		logger:     logger,
	}
}

// Search returns up to topK documents ordered by descending similarity.
// A missing index yields an empty output, not an error.
func (s *Searcher) Search(ctx context.Context, query string, topK int) (*Output, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	s.logger.Debug("retrieval request",
		zap.String("query", query),
		zap.Int("topK", topK),
	)

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if s.dimensions > 0 && len(embedding) != s.dimensions {
		return nil, fmt.Errorf("%w: query embedding has %d dimensions, index expects %d",
			store.ErrDimensionMismatch, len(embedding), s.dimensions)
	}

	hits, err := s.store.Search(ctx, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("searching store: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		results = append(results, Result{
			Title:    hit.Title,
			Content:  hit.Content,
			URL:      hit.URL,
			Datetime: hit.Datetime,
			Score:    hit.Score,
		})
	}

	return &Output{
		Query:   query,
		Results: results,
		Count:   len(results),
	}, nil
}
