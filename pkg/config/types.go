package config

// Config represents the persistent trawl configuration stored as trawl.toml.
// The TOML layout uses sections for logical grouping. It is loaded once at
// process start; there is no hot reload.
type Config struct {
	Version    int              `toml:"version" mapstructure:"version"`
	Index      IndexConfig      `toml:"index" mapstructure:"index"`
	Input      InputConfig      `toml:"input" mapstructure:"input"`
	Store      StoreConfig      `toml:"store" mapstructure:"store"`
	Embedding  EmbeddingConfig  `toml:"embedding" mapstructure:"embedding"`
	Generation GenerationConfig `toml:"generation" mapstructure:"generation"`
	Events     EventsConfig     `toml:"events" mapstructure:"events"`
}

// IndexConfig names the index and the identifier strategy.
type IndexConfig struct {
	Name       string `toml:"name,omitempty" mapstructure:"name"`
	IDStrategy string `toml:"id_strategy,omitempty" mapstructure:"id_strategy"`
	Shards     int    `toml:"shards,omitempty" mapstructure:"shards"`
	Replicas   int    `toml:"replicas,omitempty" mapstructure:"replicas"`
}

// InputConfig locates the ingestion input file and its provenance stamp.
type InputConfig struct {
	Path        string `toml:"path,omitempty" mapstructure:"path"`
	ProjectName string `toml:"project_name,omitempty" mapstructure:"project_name"`
	Page        int    `toml:"page,omitempty" mapstructure:"page"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Provider string `toml:"provider,omitempty" mapstructure:"provider"`
	Target   string `toml:"target,omitempty" mapstructure:"target"`
	APIKey   string `toml:"api_key,omitempty" mapstructure:"api_key"`
}

// EmbeddingConfig holds embedding provider settings. Dimensions must match
// the index schema for the index's whole lifetime.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty" mapstructure:"provider"`
	Target     string `toml:"target,omitempty" mapstructure:"target"`
	Model      string `toml:"model,omitempty" mapstructure:"model"`
	Dimensions int    `toml:"dimensions,omitempty" mapstructure:"dimensions"`
}

// GenerationConfig holds text-generation settings for the ask command.
type GenerationConfig struct {
	Target        string `toml:"target,omitempty" mapstructure:"target"`
	Model         string `toml:"model,omitempty" mapstructure:"model"`
	MaxConcurrent int    `toml:"max_concurrent,omitempty" mapstructure:"max_concurrent"`
}

// EventsConfig selects the batch event publisher.
type EventsConfig struct {
	Provider string   `toml:"provider,omitempty" mapstructure:"provider"`
	Brokers  []string `toml:"brokers,omitempty" mapstructure:"brokers"`
	Topic    string   `toml:"topic,omitempty" mapstructure:"topic"`
}
