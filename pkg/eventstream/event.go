package eventstream

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeBatchIndexed is emitted after a bulk write completes.
	EventTypeBatchIndexed = "trawl.batch.indexed"
)

// BatchIndexedEvent is a transport-neutral payload describing the outcome of
// one ingestion bulk write.
type BatchIndexedEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventType     string    `json:"event_type"`
	EventID       string    `json:"event_id"`
	EmittedAt     time.Time `json:"emitted_at"`

	Index       string `json:"index"`
	ProjectName string `json:"project_name,omitempty"`
	FileName    string `json:"file_name,omitempty"`
	IDStrategy  string `json:"id_strategy"`

	Submitted   int `json:"submitted"`
	Indexed     int `json:"indexed"`
	Failed      int `json:"failed"`
	NoEmbedding int `json:"no_embedding"`
}

// FillEnvelope populates empty envelope fields with their defaults so
// callers only set the batch payload. Fields already set are left alone.
func (e *BatchIndexedEvent) FillEnvelope() {
	if e.SchemaVersion == 0 {
		e.SchemaVersion = SchemaVersionV1
	}
	if e.EventType == "" {
		e.EventType = EventTypeBatchIndexed
	}
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.EmittedAt.IsZero() {
		e.EmittedAt = time.Now().UTC()
	}
}
