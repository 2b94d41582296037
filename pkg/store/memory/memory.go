// Package memory provides an in-memory store driver with exact cosine
// scoring. It backs unit tests and the "memory" store provider.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/harborworks/trawl/pkg/store"
)

// Driver implements store.Driver over a mutex-guarded map. Insertion order
// is preserved so match-all previews are deterministic.
type Driver struct {
	mu     sync.RWMutex
	schema *store.Schema
	docs   map[string]store.Document
	order  []string
}

// NewDriver creates an empty in-memory driver with no index.
func NewDriver() *Driver {
	return &Driver{
		docs: make(map[string]store.Document),
	}
}

// EnsureIndex records the schema on first call and is a no-op afterwards.
// A differing vector dimension on an existing index is a schema conflict.
func (d *Driver) EnsureIndex(_ context.Context, schema store.Schema) (store.EnsureOutcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.schema != nil {
		if d.schema.Dimensions != schema.Dimensions {
			return store.OutcomeExists, store.ErrSchemaConflict
		}
		return store.OutcomeExists, nil
	}

	s := schema
	d.schema = &s
	return store.OutcomeCreated, nil
}

// BulkIndex upserts every document. Documents carrying an embedding of the
// wrong length are rejected individually; the rest of the batch still lands.
func (d *Driver) BulkIndex(_ context.Context, docs []store.Document) (*store.BulkReport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.schema == nil {
		return nil, store.ErrNotFound
	}

	report := &store.BulkReport{Submitted: len(docs)}
	for _, doc := range docs {
		if len(doc.Embedding) > 0 && len(doc.Embedding) != d.schema.Dimensions {
			report.Failed = append(report.Failed, store.BulkFailure{
				ID:     doc.ID,
				Reason: store.ErrDimensionMismatch.Error(),
			})
			continue
		}

		if _, exists := d.docs[doc.ID]; !exists {
			d.order = append(d.order, doc.ID)
		}
		d.docs[doc.ID] = doc
		report.Indexed++
	}

	return report, nil
}

// DeleteByID removes one document, reporting OutcomeNotFound for missing IDs.
func (d *Driver) DeleteByID(_ context.Context, id string) (store.DeleteOutcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.docs[id]; !ok {
		return store.OutcomeNotFound, nil
	}

	d.remove(id)
	return store.OutcomeDeleted, nil
}

// DeleteByMatch removes up to store.MatchPageSize matching documents.
func (d *Driver) DeleteByMatch(_ context.Context, field, value string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var matched []string
	for _, id := range d.order {
		if fieldValue(d.docs[id], field) == value {
			matched = append(matched, id)
			if len(matched) == store.MatchPageSize {
				break
			}
		}
	}

	for _, id := range matched {
		d.remove(id)
	}
	return len(matched), nil
}

// Count returns the number of stored documents.
func (d *Driver) Count(_ context.Context) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.schema == nil {
		return 0, store.ErrNotFound
	}
	return int64(len(d.docs)), nil
}

// Search scores every embedded document by cosine similarity and returns the
// topK best. A driver with no index returns an empty result.
func (d *Driver) Search(_ context.Context, embedding []float32, topK int) ([]store.ScoredDocument, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.schema == nil {
		return nil, nil
	}
	if topK <= 0 {
		topK = 5
	}

	var results []store.ScoredDocument
	for _, id := range d.order {
		doc := d.docs[id]
		if len(doc.Embedding) == 0 {
			continue
		}
		results = append(results, store.ScoredDocument{
			Document: doc,
			Score:    cosine(embedding, doc.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Preview returns up to size documents, optionally filtered by field=value.
func (d *Driver) Preview(_ context.Context, field, value string, size int) ([]store.Document, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.schema == nil {
		return nil, store.ErrNotFound
	}
	if size <= 0 {
		size = 5
	}

	var docs []store.Document
	for _, id := range d.order {
		doc := d.docs[id]
		if field != "" && fieldValue(doc, field) != value {
			continue
		}
		docs = append(docs, doc)
		if len(docs) == size {
			break
		}
	}
	return docs, nil
}

// DropIndex discards the schema and all documents.
func (d *Driver) DropIndex(_ context.Context) (store.DeleteOutcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.schema == nil {
		return store.OutcomeNotFound, nil
	}

	d.schema = nil
	d.docs = make(map[string]store.Document)
	d.order = nil
	return store.OutcomeDeleted, nil
}

// Close is a no-op.
func (d *Driver) Close() error {
	return nil
}

// remove must be called with the write lock held.
func (d *Driver) remove(id string) {
	delete(d.docs, id)
	for i, other := range d.order {
		if other == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

func fieldValue(doc store.Document, field string) string {
	switch field {
	case "id":
		return doc.ID
	case "title":
		return doc.Title
	case "content":
		return doc.Content
	case "url":
		return doc.URL
	case "datetime":
		return doc.Datetime
	case "project_name":
		return doc.ProjectName
	case "file_name":
		return doc.FileName
	default:
		return ""
	}
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

var _ store.Driver = (*Driver)(nil)
