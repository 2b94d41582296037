// Package qdrant provides a store driver backed by Qdrant's gRPC API.
package qdrant

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"github.com/harborworks/trawl/pkg/store"
)

const (
	// DefaultTarget is the default Qdrant gRPC endpoint.
	DefaultTarget = "localhost:6334"
)

// Driver implements store.Driver against a Qdrant collection. Documents ride
// in point payloads; the collection uses cosine distance.
type Driver struct {
	client     *qdrant.Client
	collection string
	dimensions int
	logger     *zap.Logger
}

// Config holds configuration for the Qdrant driver.
type Config struct {
	// Target is the host:port of the Qdrant gRPC endpoint.
	// Defaults to DefaultTarget if empty.
	Target string

	// Collection is the collection name all operations target.
	Collection string

	// APIKey is an optional authentication key.
	APIKey string
}

// NewDriver connects to Qdrant and verifies the endpoint is healthy.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.Collection == "" {
		return nil, fmt.Errorf("qdrant collection name is required")
	}

	target := c.Target
	if target == "" {
		target = DefaultTarget
	}

	host, port, err := splitTarget(target)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: c.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	if _, err := client.HealthCheck(context.Background()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	logger.Info("connected to Qdrant",
		zap.String("target", target),
		zap.String("collection", c.Collection),
	)

	return &Driver{
		client:     client,
		collection: c.Collection,
		logger:     logger,
	}, nil
}

func splitTarget(target string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(target, "grpc://"))
	if err != nil {
		return "", 0, fmt.Errorf("invalid qdrant target %q: %w", target, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid qdrant port %q: %w", portStr, err)
	}
	return host, port, nil
}

// EnsureIndex creates the collection with cosine distance if absent. An
// existing collection with a different vector size is a schema conflict.
func (d *Driver) EnsureIndex(ctx context.Context, schema store.Schema) (store.EnsureOutcome, error) {
	exists, err := d.client.CollectionExists(ctx, d.collection)
	if err != nil {
		return store.OutcomeExists, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	if exists {
		info, err := d.client.GetCollectionInfo(ctx, d.collection)
		if err != nil {
			return store.OutcomeExists, fmt.Errorf("reading collection info: %w", err)
		}
		size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != uint64(schema.Dimensions) {
			return store.OutcomeExists, fmt.Errorf("%w: collection has %d dimensions, schema wants %d",
				store.ErrSchemaConflict, size, schema.Dimensions)
		}
		d.dimensions = schema.Dimensions
		return store.OutcomeExists, nil
	}

	err = d.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: d.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(schema.Dimensions),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return store.OutcomeExists, fmt.Errorf("creating collection: %w", err)
	}

	d.dimensions = schema.Dimensions
	d.logger.Info("created collection",
		zap.String("collection", d.collection),
		zap.Int("dimensions", schema.Dimensions),
	)

	return store.OutcomeCreated, nil
}

// BulkIndex upserts documents as points. Documents whose ID cannot map to a
// point ID, or whose embedding has the wrong length, fail individually.
// Documents without an embedding get a zero vector so they still persist;
// cosine scoring keeps them out of similarity results.
func (d *Driver) BulkIndex(ctx context.Context, docs []store.Document) (*store.BulkReport, error) {
	report := &store.BulkReport{Submitted: len(docs)}
	if len(docs) == 0 {
		return report, nil
	}

	points := make([]*qdrant.PointStruct, 0, len(docs))
	accepted := make([]string, 0, len(docs))
	for _, doc := range docs {
		pointID, err := pointID(doc.ID)
		if err != nil {
			report.Failed = append(report.Failed, store.BulkFailure{ID: doc.ID, Reason: err.Error()})
			continue
		}

		vec := doc.Embedding
		if len(vec) == 0 {
			vec = make([]float32, d.dimensions)
		} else if d.dimensions > 0 && len(vec) != d.dimensions {
			report.Failed = append(report.Failed, store.BulkFailure{
				ID:     doc.ID,
				Reason: store.ErrDimensionMismatch.Error(),
			})
			continue
		}

		points = append(points, &qdrant.PointStruct{
			Id:      pointID,
			Vectors: qdrant.NewVectors(vec...),
			Payload: qdrant.NewValueMap(map[string]any{
				"doc_id":       doc.ID,
				"title":        doc.Title,
				"content":      doc.Content,
				"url":          doc.URL,
				"datetime":     doc.Datetime,
				"project_name": doc.ProjectName,
				"file_name":    doc.FileName,
				"page":         int64(doc.Page),
			}),
		})
		accepted = append(accepted, doc.ID)
	}

	if len(points) > 0 {
		_, err := d.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: d.collection,
			Points:         points,
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			for _, id := range accepted {
				report.Failed = append(report.Failed, store.BulkFailure{ID: id, Reason: err.Error()})
			}
			return report, nil
		}
		report.Indexed = len(points)
	}

	d.logger.Debug("upserted points",
		zap.Int("submitted", report.Submitted),
		zap.Int("indexed", report.Indexed),
	)

	return report, nil
}

// DeleteByID removes one point, checking existence first so a missing ID is
// reported instead of silently succeeding.
func (d *Driver) DeleteByID(ctx context.Context, id string) (store.DeleteOutcome, error) {
	pid, err := pointID(id)
	if err != nil {
		return store.OutcomeNotFound, nil
	}

	existing, err := d.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: d.collection,
		Ids:            []*qdrant.PointId{pid},
	})
	if err != nil {
		return store.OutcomeNotFound, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if len(existing) == 0 {
		return store.OutcomeNotFound, nil
	}

	_, err = d.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: d.collection,
		Points:         qdrant.NewPointsSelector(pid),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return store.OutcomeNotFound, fmt.Errorf("deleting point: %w", err)
	}
	return store.OutcomeDeleted, nil
}

// DeleteByMatch scrolls one page of matching points and deletes them.
func (d *Driver) DeleteByMatch(ctx context.Context, field, value string) (int, error) {
	matched, err := d.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: d.collection,
		Filter:         matchFilter(field, value),
		Limit:          qdrant.PtrOf(uint32(store.MatchPageSize)),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if len(matched) == 0 {
		return 0, nil
	}

	ids := make([]*qdrant.PointId, len(matched))
	for i, point := range matched {
		ids[i] = point.GetId()
	}

	_, err = d.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: d.collection,
		Points:         qdrant.NewPointsSelector(ids...),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("deleting matched points: %w", err)
	}

	d.logger.Debug("deleted points by match",
		zap.String("field", field),
		zap.Int("deleted", len(ids)),
	)

	return len(ids), nil
}

// Count returns the exact point count.
func (d *Driver) Count(ctx context.Context) (int64, error) {
	exists, err := d.client.CollectionExists(ctx, d.collection)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if !exists {
		return 0, store.ErrNotFound
	}

	count, err := d.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: d.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("counting points: %w", err)
	}
	return int64(count), nil
}

// Search queries the collection. A missing collection yields an empty result.
func (d *Driver) Search(ctx context.Context, embedding []float32, topK int) ([]store.ScoredDocument, error) {
	if topK <= 0 {
		topK = 5
	}

	exists, err := d.client.CollectionExists(ctx, d.collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if !exists {
		return nil, nil
	}

	points, err := d.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: d.collection,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying points: %w", err)
	}

	results := make([]store.ScoredDocument, 0, len(points))
	for _, point := range points {
		results = append(results, store.ScoredDocument{
			Document: documentFromPayload(point.GetPayload()),
			Score:    point.GetScore(),
		})
	}
	return results, nil
}

// Preview scrolls up to size points, optionally filtered by field=value.
func (d *Driver) Preview(ctx context.Context, field, value string, size int) ([]store.Document, error) {
	if size <= 0 {
		size = 5
	}

	var filter *qdrant.Filter
	if field != "" {
		filter = matchFilter(field, value)
	}

	points, err := d.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: d.collection,
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint32(size)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}

	docs := make([]store.Document, 0, len(points))
	for _, point := range points {
		docs = append(docs, documentFromPayload(point.GetPayload()))
	}
	return docs, nil
}

// DropIndex deletes the whole collection.
func (d *Driver) DropIndex(ctx context.Context) (store.DeleteOutcome, error) {
	exists, err := d.client.CollectionExists(ctx, d.collection)
	if err != nil {
		return store.OutcomeNotFound, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	if !exists {
		return store.OutcomeNotFound, nil
	}

	if err := d.client.DeleteCollection(ctx, d.collection); err != nil {
		return store.OutcomeNotFound, fmt.Errorf("deleting collection: %w", err)
	}

	d.logger.Info("dropped collection", zap.String("collection", d.collection))
	return store.OutcomeDeleted, nil
}

// Close shuts down the gRPC connection.
func (d *Driver) Close() error {
	return d.client.Close()
}

// pointID maps a document ID onto a Qdrant point ID. Qdrant only accepts
// unsigned integers and UUIDs, so sequential IDs become numeric IDs and md5
// hex digests are reshaped into UUID form.
func pointID(id string) (*qdrant.PointId, error) {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return qdrant.NewIDNum(n), nil
	}
	// uuid.Parse also accepts the undashed 32-hex form, so hash IDs must be
	// reshaped before the pass-through or they would be sent raw.
	if len(id) == 32 {
		reshaped := fmt.Sprintf("%s-%s-%s-%s-%s", id[0:8], id[8:12], id[12:16], id[16:20], id[20:32])
		if _, err := uuid.Parse(reshaped); err == nil {
			return qdrant.NewID(reshaped), nil
		}
	}
	if _, err := uuid.Parse(id); err == nil {
		return qdrant.NewID(id), nil
	}
	return nil, fmt.Errorf("id %q is not usable as a qdrant point id", id)
}

func matchFilter(field, value string) *qdrant.Filter {
	// The document's "id" field lives in the payload as "doc_id"; the
	// payload "id" slot would shadow the point id otherwise.
	if field == "id" {
		field = "doc_id"
	}
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch(field, value),
		},
	}
}

func documentFromPayload(payload map[string]*qdrant.Value) store.Document {
	str := func(key string) string {
		if v, ok := payload[key]; ok {
			return v.GetStringValue()
		}
		return ""
	}

	doc := store.Document{
		ID:          str("doc_id"),
		Title:       str("title"),
		Content:     str("content"),
		URL:         str("url"),
		Datetime:    str("datetime"),
		ProjectName: str("project_name"),
		FileName:    str("file_name"),
	}
	if v, ok := payload["page"]; ok {
		doc.Page = int(v.GetIntegerValue())
	}
	return doc
}

var _ store.Driver = (*Driver)(nil)
