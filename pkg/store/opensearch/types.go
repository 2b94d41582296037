package opensearch

import "encoding/json"

// indexMapping is the index-create request body. The embedding field is a
// knn_vector sized to the schema's dimension; everything else mirrors the
// document fields.
type indexMapping struct {
	Settings indexSettings `json:"settings"`
	Mappings mappings      `json:"mappings"`
}

type indexSettings struct {
	Index indexOptions `json:"index"`
}

type indexOptions struct {
	NumberOfShards   int  `json:"number_of_shards"`
	NumberOfReplicas int  `json:"number_of_replicas"`
	KNN              bool `json:"knn"`
}

type mappings struct {
	Properties map[string]fieldMapping `json:"properties"`
}

type fieldMapping struct {
	Type      string `json:"type"`
	Dimension int    `json:"dimension,omitempty"`
}

// errorResponse is the engine's generic error envelope.
type errorResponse struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
	Status int `json:"status"`
}

// bulkResponse reports per-item outcomes of a _bulk request.
type bulkResponse struct {
	Errors bool       `json:"errors"`
	Items  []bulkItem `json:"items"`
}

type bulkItem struct {
	Index  *bulkItemDetail `json:"index,omitempty"`
	Delete *bulkItemDetail `json:"delete,omitempty"`
}

type bulkItemDetail struct {
	ID     string `json:"_id"`
	Status int    `json:"status"`
	Result string `json:"result"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error,omitempty"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

type deleteDocResponse struct {
	Result string `json:"result"`
}

// searchRequest covers both similarity and match/match-all queries; Query is
// assembled as a raw tree because the script_score body is deeply nested.
type searchRequest struct {
	Size  int            `json:"size"`
	Query map[string]any `json:"query"`
}

type searchResponse struct {
	Hits struct {
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

type searchHit struct {
	ID     string          `json:"_id"`
	Score  float32         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// scriptScoreQuery builds the knn script_score query the engine scores
// cosine similarity with, over match-all candidates.
func scriptScoreQuery(embedding []float32) map[string]any {
	return map[string]any{
		"script_score": map[string]any{
			"query": map[string]any{"match_all": map[string]any{}},
			"script": map[string]any{
				"source": "knn_score",
				"lang":   "knn",
				"params": map[string]any{
					"field":       "embedding",
					"query_value": embedding,
					"space_type":  "cosinesimil",
				},
			},
		},
	}
}

func matchAllQuery() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

func matchQuery(field, value string) map[string]any {
	return map[string]any{
		"match": map[string]any{field: value},
	}
}
