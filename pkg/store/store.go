// Package store defines the document store contract: typed documents, index
// schemas, and a Driver interface implemented by each search engine backend.
package store

import "context"

// Document is the unit of storage. ID assignment happens upstream in the
// ingestion pipeline; the store writes whatever it is handed and overwrites
// on ID collision.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	Datetime    string    `json:"datetime"`
	ProjectName string    `json:"project_name"`
	FileName    string    `json:"file_name"`
	Page        int       `json:"page"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// ScoredDocument is a search hit with its similarity score.
type ScoredDocument struct {
	Document

	// Score is the similarity score (higher = more similar).
	Score float32
}

// Schema describes an index at creation time. Schemas are immutable once the
// index exists; changing Dimensions requires a new index.
type Schema struct {
	Name       string
	Dimensions int
	Shards     int
	Replicas   int
}

// EnsureOutcome reports whether EnsureIndex created the index or found it.
type EnsureOutcome int

const (
	OutcomeCreated EnsureOutcome = iota
	OutcomeExists
)

// DeleteOutcome reports whether a delete target existed. A missing target is
// a reported condition, never an error.
type DeleteOutcome int

const (
	OutcomeDeleted DeleteOutcome = iota
	OutcomeNotFound
)

// BulkFailure describes one rejected document within a bulk write.
type BulkFailure struct {
	ID     string
	Reason string
}

// BulkReport is the per-document result of a bulk write. Bulk writes are
// atomic per document, not per batch: some documents can land while others
// are rejected.
type BulkReport struct {
	Submitted int
	Indexed   int
	Failed    []BulkFailure
}

// MatchPageSize bounds how many matching documents a single DeleteByMatch
// call removes. Callers re-invoke until a pass deletes nothing.
const MatchPageSize = 1000

// Driver is the sole point of contact with a document store backend.
type Driver interface {
	// EnsureIndex creates the index with the given schema if it does not
	// exist. Returns OutcomeExists without touching an existing index; an
	// existing index with an incompatible mapping yields ErrSchemaConflict.
	EnsureIndex(ctx context.Context, schema Schema) (EnsureOutcome, error)

	// BulkIndex writes documents in one batch, overwriting on ID collision.
	// Partial failure is reported per document, not as an error.
	BulkIndex(ctx context.Context, docs []Document) (*BulkReport, error)

	// DeleteByID removes one document. A missing ID is OutcomeNotFound.
	DeleteByID(ctx context.Context, id string) (DeleteOutcome, error)

	// DeleteByMatch removes up to MatchPageSize documents whose field matches
	// value and returns how many were removed.
	DeleteByMatch(ctx context.Context, field, value string) (int, error)

	// Count returns the number of documents in the index.
	Count(ctx context.Context) (int64, error)

	// Search returns up to topK documents ordered by descending similarity
	// to the given embedding. A missing index yields an empty result.
	Search(ctx context.Context, embedding []float32, topK int) ([]ScoredDocument, error)

	// Preview returns up to size documents. With an empty field it is a
	// match-all read; otherwise only documents whose field matches value.
	Preview(ctx context.Context, field, value string, size int) ([]Document, error)

	// DropIndex destroys the whole index. Missing index is OutcomeNotFound.
	DropIndex(ctx context.Context) (DeleteOutcome, error)

	// Close releases any resources held by the driver.
	Close() error
}
