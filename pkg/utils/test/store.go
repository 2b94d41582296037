package testutils

import (
	"context"
	"fmt"

	"github.com/harborworks/trawl/pkg/store"
)

// FailingStore wraps a store.Driver and injects failures per operation.
type FailingStore struct {
	store.Driver

	FailSearch bool
	FailBulk   bool
}

func (f *FailingStore) Search(ctx context.Context, embedding []float32, topK int) ([]store.ScoredDocument, error) {
	if f.FailSearch {
		return nil, fmt.Errorf("mock search failure")
	}
	return f.Driver.Search(ctx, embedding, topK)
}

func (f *FailingStore) BulkIndex(ctx context.Context, docs []store.Document) (*store.BulkReport, error) {
	if f.FailBulk {
		return nil, fmt.Errorf("mock bulk failure")
	}
	return f.Driver.BulkIndex(ctx, docs)
}
