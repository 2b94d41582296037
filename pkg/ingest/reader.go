package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// RawDocument is one scraped record as the crawlers emit it. Absent fields
// decode to empty strings; nothing is parsed or validated here.
type RawDocument struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	URL      string `json:"url"`
	Datetime string `json:"datetime"`
}

// ReadBatch loads an ordered batch of raw documents from a JSON array file.
func ReadBatch(path string) ([]RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	var docs []RawDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parsing input file %s: %w", path, err)
	}

	return docs, nil
}
