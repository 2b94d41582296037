// Package opensearch provides a store driver for OpenSearch's REST API.
package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harborworks/trawl/pkg/store"
)

const (
	// DefaultURL is the default OpenSearch endpoint.
	DefaultURL = "http://localhost:9200"

	defaultTimeout = 30 * time.Second
)

// Driver implements store.Driver against OpenSearch. It holds one HTTP
// client reused across calls; last-writer-wins on ID collision is whatever
// the engine guarantees.
type Driver struct {
	baseURL    string
	index      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds configuration for the OpenSearch driver.
type Config struct {
	// URL is the OpenSearch endpoint (e.g. "http://localhost:9200").
	// Defaults to DefaultURL if empty.
	URL string

	// Index is the index name all operations target.
	Index string

	// Timeout bounds each request. Defaults to 30s if zero.
	Timeout time.Duration
}

// NewDriver creates an OpenSearch driver and verifies the engine is
// reachable. An unreachable engine is store.ErrUnavailable.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.Index == "" {
		return nil, fmt.Errorf("opensearch index name is required")
	}

	baseURL := c.URL
	if baseURL == "" {
		baseURL = DefaultURL
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	d := &Driver{
		baseURL: strings.TrimRight(baseURL, "/"),
		index:   c.Index,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}

	if err := d.ping(context.Background()); err != nil {
		return nil, err
	}

	logger.Info("connected to OpenSearch",
		zap.String("url", baseURL),
		zap.String("index", c.Index),
	)

	return d, nil
}

func (d *Driver) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("creating ping request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: ping returned status %d", store.ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// indexExists issues a HEAD on the index.
func (d *Driver) indexExists(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, d.indexURL(), nil)
	if err != nil {
		return false, fmt.Errorf("creating exists request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("exists check returned status %d", resp.StatusCode)
	}
}

// EnsureIndex creates the index with the schema's mapping if absent.
func (d *Driver) EnsureIndex(ctx context.Context, schema store.Schema) (store.EnsureOutcome, error) {
	exists, err := d.indexExists(ctx)
	if err != nil {
		return store.OutcomeExists, err
	}
	if exists {
		return store.OutcomeExists, nil
	}

	shards := schema.Shards
	if shards == 0 {
		shards = 1
	}

	mapping := indexMapping{
		Settings: indexSettings{
			Index: indexOptions{
				NumberOfShards:   shards,
				NumberOfReplicas: schema.Replicas,
				KNN:              true,
			},
		},
		Mappings: mappings{
			Properties: map[string]fieldMapping{
				"id":           {Type: "keyword"},
				"title":        {Type: "text"},
				"content":      {Type: "text"},
				"url":          {Type: "keyword"},
				"datetime":     {Type: "text"},
				"project_name": {Type: "keyword"},
				"file_name":    {Type: "keyword"},
				"page":         {Type: "integer"},
				"embedding":    {Type: "knn_vector", Dimension: schema.Dimensions},
			},
		},
	}

	body, err := json.Marshal(mapping)
	if err != nil {
		return store.OutcomeExists, fmt.Errorf("marshaling index mapping: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, d.indexURL(), bytes.NewReader(body))
	if err != nil {
		return store.OutcomeExists, fmt.Errorf("creating index request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return store.OutcomeExists, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp errorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &errResp) == nil {
			// Lost a create race: the index appeared between HEAD and PUT.
			if errResp.Error.Type == "resource_already_exists_exception" {
				return store.OutcomeExists, nil
			}
			if strings.Contains(errResp.Error.Type, "mapper") {
				return store.OutcomeExists, fmt.Errorf("%w: %s", store.ErrSchemaConflict, errResp.Error.Reason)
			}
		}
		return store.OutcomeExists, fmt.Errorf("failed to create index: status %d: %s", resp.StatusCode, string(raw))
	}

	d.logger.Info("created index",
		zap.String("index", d.index),
		zap.Int("dimensions", schema.Dimensions),
	)

	return store.OutcomeCreated, nil
}

// BulkIndex writes all documents through one _bulk request and folds the
// engine's per-item statuses into a report.
func (d *Driver) BulkIndex(ctx context.Context, docs []store.Document) (*store.BulkReport, error) {
	if len(docs) == 0 {
		return &store.BulkReport{}, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, doc := range docs {
		action := map[string]map[string]string{
			"index": {"_index": d.index, "_id": doc.ID},
		}
		if err := enc.Encode(action); err != nil {
			return nil, fmt.Errorf("encoding bulk action: %w", err)
		}
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding bulk document %s: %w", doc.ID, err)
		}
	}

	bulkResp, err := d.bulk(ctx, &buf)
	if err != nil {
		return nil, err
	}

	report := &store.BulkReport{Submitted: len(docs)}
	for _, item := range bulkResp.Items {
		detail := item.Index
		if detail == nil {
			continue
		}
		if detail.Error != nil {
			report.Failed = append(report.Failed, store.BulkFailure{
				ID:     detail.ID,
				Reason: detail.Error.Reason,
			})
			continue
		}
		report.Indexed++
	}

	d.logger.Debug("bulk indexed documents",
		zap.Int("submitted", report.Submitted),
		zap.Int("indexed", report.Indexed),
		zap.Int("failed", len(report.Failed)),
	)

	return report, nil
}

func (d *Driver) bulk(ctx context.Context, body io.Reader) (*bulkResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/_bulk", body)
	if err != nil {
		return nil, fmt.Errorf("creating bulk request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bulk request failed: status %d: %s", resp.StatusCode, string(raw))
	}

	var bulkResp bulkResponse
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return nil, fmt.Errorf("decoding bulk response: %w", err)
	}
	return &bulkResp, nil
}

// DeleteByID removes one document; a 404 is OutcomeNotFound, not an error.
func (d *Driver) DeleteByID(ctx context.Context, id string) (store.DeleteOutcome, error) {
	docURL := fmt.Sprintf("%s/_doc/%s", d.indexURL(), url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, docURL, nil)
	if err != nil {
		return store.OutcomeNotFound, fmt.Errorf("creating delete request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return store.OutcomeNotFound, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return store.OutcomeNotFound, nil
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return store.OutcomeNotFound, fmt.Errorf("delete failed: status %d: %s", resp.StatusCode, string(raw))
	}

	var delResp deleteDocResponse
	if err := json.NewDecoder(resp.Body).Decode(&delResp); err != nil {
		return store.OutcomeNotFound, fmt.Errorf("decoding delete response: %w", err)
	}
	if delResp.Result == "not_found" {
		return store.OutcomeNotFound, nil
	}
	return store.OutcomeDeleted, nil
}

// DeleteByMatch finds up to one page of matches and deletes them in one bulk
// request. Matches beyond the page bound survive this call.
func (d *Driver) DeleteByMatch(ctx context.Context, field, value string) (int, error) {
	hits, err := d.search(ctx, searchRequest{
		Size:  store.MatchPageSize,
		Query: matchQuery(field, value),
	})
	if err != nil {
		return 0, err
	}
	if len(hits) == 0 {
		return 0, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, hit := range hits {
		action := map[string]map[string]string{
			"delete": {"_index": d.index, "_id": hit.ID},
		}
		if err := enc.Encode(action); err != nil {
			return 0, fmt.Errorf("encoding delete action: %w", err)
		}
	}

	bulkResp, err := d.bulk(ctx, &buf)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, item := range bulkResp.Items {
		if item.Delete != nil && item.Delete.Error == nil && item.Delete.Result == "deleted" {
			deleted++
		}
	}

	d.logger.Debug("deleted documents by match",
		zap.String("field", field),
		zap.Int("deleted", deleted),
	)

	return deleted, nil
}

// Count returns the index's document count.
func (d *Driver) Count(ctx context.Context) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.indexURL()+"/_count", nil)
	if err != nil {
		return 0, fmt.Errorf("creating count request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, store.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("count failed: status %d: %s", resp.StatusCode, string(raw))
	}

	var countResp countResponse
	if err := json.NewDecoder(resp.Body).Decode(&countResp); err != nil {
		return 0, fmt.Errorf("decoding count response: %w", err)
	}
	return countResp.Count, nil
}

// Search runs the knn script_score query. A missing index yields an empty
// result instead of an error.
func (d *Driver) Search(ctx context.Context, embedding []float32, topK int) ([]store.ScoredDocument, error) {
	if topK <= 0 {
		topK = 5
	}

	exists, err := d.indexExists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	hits, err := d.search(ctx, searchRequest{
		Size:  topK,
		Query: scriptScoreQuery(embedding),
	})
	if err != nil {
		return nil, err
	}

	results := make([]store.ScoredDocument, 0, len(hits))
	for _, hit := range hits {
		var doc store.Document
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("decoding hit %s: %w", hit.ID, err)
		}
		if doc.ID == "" {
			doc.ID = hit.ID
		}
		results = append(results, store.ScoredDocument{Document: doc, Score: hit.Score})
	}

	d.logger.Debug("similarity search",
		zap.Int("topK", topK),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Preview reads up to size documents, match-all unless a field is given.
func (d *Driver) Preview(ctx context.Context, field, value string, size int) ([]store.Document, error) {
	if size <= 0 {
		size = 5
	}

	query := matchAllQuery()
	if field != "" {
		query = matchQuery(field, value)
	}

	hits, err := d.search(ctx, searchRequest{Size: size, Query: query})
	if err != nil {
		return nil, err
	}

	docs := make([]store.Document, 0, len(hits))
	for _, hit := range hits {
		var doc store.Document
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("decoding hit %s: %w", hit.ID, err)
		}
		if doc.ID == "" {
			doc.ID = hit.ID
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (d *Driver) search(ctx context.Context, reqBody searchRequest) ([]searchHit, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.indexURL()+"/_search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, store.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search failed: status %d: %s", resp.StatusCode, string(raw))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return searchResp.Hits.Hits, nil
}

// DropIndex deletes the whole index.
func (d *Driver) DropIndex(ctx context.Context) (store.DeleteOutcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, d.indexURL(), nil)
	if err != nil {
		return store.OutcomeNotFound, fmt.Errorf("creating drop request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return store.OutcomeNotFound, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return store.OutcomeNotFound, nil
	}
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return store.OutcomeNotFound, fmt.Errorf("drop index failed: status %d: %s", resp.StatusCode, string(raw))
	}

	d.logger.Info("dropped index", zap.String("index", d.index))
	return store.OutcomeDeleted, nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

func (d *Driver) indexURL() string {
	return d.baseURL + "/" + url.PathEscape(d.index)
}

var _ store.Driver = (*Driver)(nil)
