// Package eventstream publishes ingestion lifecycle events to a stream
// backend so downstream consumers (dashboards, crawler schedulers) can react
// to completed batches.
package eventstream

import "context"

// Publisher publishes batch events to an event stream backend.
type Publisher interface {
	PublishBatch(ctx context.Context, event *BatchIndexedEvent) error
	Close() error
}
