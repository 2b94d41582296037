package config

const (
	defaultIndexName  = "articles"
	defaultIDStrategy = "uuid"
	defaultShards     = 1

	defaultInputPath   = "articles.json"
	defaultProjectName = "trawl"
	defaultPage        = 1

	defaultStoreProvider = "opensearch"
	defaultStoreTarget   = "http://localhost:9200"

	defaultEmbeddingProvider   = "ollama"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "all-minilm"
	defaultEmbeddingDimensions = 384

	defaultGenerationTarget = "http://localhost:11434"
	defaultGenerationModel  = "llama3.2"
	defaultMaxConcurrent    = 2

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "trawl.batches"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Index: IndexConfig{
			Name:       defaultIndexName,
			IDStrategy: defaultIDStrategy,
			Shards:     defaultShards,
		},
		Input: InputConfig{
			Path:        defaultInputPath,
			ProjectName: defaultProjectName,
			Page:        defaultPage,
		},
		Store: StoreConfig{
			Provider: defaultStoreProvider,
			Target:   defaultStoreTarget,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Generation: GenerationConfig{
			Target:        defaultGenerationTarget,
			Model:         defaultGenerationModel,
			MaxConcurrent: defaultMaxConcurrent,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
	}
}
