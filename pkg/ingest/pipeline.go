// Package ingest transforms batches of raw scraped documents into indexed,
// embedded records.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/harborworks/trawl/pkg/embeddings"
	"github.com/harborworks/trawl/pkg/eventstream"
	"github.com/harborworks/trawl/pkg/store"
)

// Provenance is batch-constant metadata stamped onto every document.
type Provenance struct {
	ProjectName string
	FileName    string
	Page        int
}

// Config holds the pipeline's fixed choices for one ingestion run.
type Config struct {
	Index      string
	Strategy   Strategy
	Dimensions int
	Provenance Provenance
}

// Report is the outcome of one pipeline run. The batch as a whole "ran" even
// when individual documents failed; nothing is rolled back.
type Report struct {
	Submitted   int
	Indexed     int
	NoEmbedding int
	Failed      []store.BulkFailure
}

// Pipeline stages a batch of raw documents and submits them as one bulk
// write. It is synchronous and processes input in order.
type Pipeline struct {
	store     store.Driver
	embedder  embeddings.Embedder
	publisher eventstream.Publisher
	cfg       Config
	logger    *zap.Logger
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(driver store.Driver, embedder embeddings.Embedder, publisher eventstream.Publisher, cfg Config, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		store:     driver,
		embedder:  embedder,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Run assigns ids, embeds content, stages the full batch, and issues one
// bulk write. Documents whose embedding length disagrees with the configured
// dimension are rejected per-document; empty content is indexed without an
// embedding and counted in the report.
func (p *Pipeline) Run(ctx context.Context, batch []RawDocument) (*Report, error) {
	report := &Report{Submitted: len(batch)}
	if len(batch) == 0 {
		return report, nil
	}

	start := 1
	if p.cfg.Strategy == StrategySequential {
		// Continue past existing documents so a re-run appends under
		// fresh ids instead of overwriting the previous run.
		count, err := p.store.Count(ctx)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("counting existing documents: %w", err)
		}
		start = int(count) + 1
	}

	assigner := newAssigner(p.cfg.Strategy, start)
	staged := make([]store.Document, 0, len(batch))

	for _, raw := range batch {
		doc := store.Document{
			ID:          assigner.assign(raw),
			Title:       raw.Title,
			Content:     raw.Content,
			URL:         raw.URL,
			Datetime:    raw.Datetime,
			ProjectName: p.cfg.Provenance.ProjectName,
			FileName:    p.cfg.Provenance.FileName,
			Page:        p.cfg.Provenance.Page,
		}

		if raw.Content == "" {
			report.NoEmbedding++
			staged = append(staged, doc)
			continue
		}

		vec, err := p.embedder.Embed(ctx, raw.Content)
		if err != nil {
			report.Failed = append(report.Failed, store.BulkFailure{
				ID:     doc.ID,
				Reason: fmt.Sprintf("embedding: %v", err),
			})
			continue
		}
		if len(vec) != p.cfg.Dimensions {
			report.Failed = append(report.Failed, store.BulkFailure{
				ID: doc.ID,
				Reason: fmt.Sprintf("%v: model produced %d dimensions, index expects %d",
					store.ErrDimensionMismatch, len(vec), p.cfg.Dimensions),
			})
			continue
		}

		doc.Embedding = vec
		staged = append(staged, doc)
	}

	bulkReport, err := p.store.BulkIndex(ctx, staged)
	if err != nil {
		return nil, fmt.Errorf("bulk write: %w", err)
	}

	report.Indexed = bulkReport.Indexed
	report.Failed = append(report.Failed, bulkReport.Failed...)

	p.logger.Info("ingestion run complete",
		zap.Int("submitted", report.Submitted),
		zap.Int("indexed", report.Indexed),
		zap.Int("failed", len(report.Failed)),
		zap.Int("no_embedding", report.NoEmbedding),
		zap.String("id_strategy", p.cfg.Strategy.String()),
	)

	p.publish(ctx, report)
	return report, nil
}

// publish emits the batch event. Publishing is best-effort: a stream outage
// never fails an ingestion that already landed.
func (p *Pipeline) publish(ctx context.Context, report *Report) {
	if p.publisher == nil {
		return
	}

	err := p.publisher.PublishBatch(ctx, &eventstream.BatchIndexedEvent{
		Index:       p.cfg.Index,
		ProjectName: p.cfg.Provenance.ProjectName,
		FileName:    p.cfg.Provenance.FileName,
		IDStrategy:  p.cfg.Strategy.String(),
		Submitted:   report.Submitted,
		Indexed:     report.Indexed,
		Failed:      len(report.Failed),
		NoEmbedding: report.NoEmbedding,
	})
	if err != nil {
		p.logger.Warn("failed to publish batch event", zap.Error(err))
	}
}
