// Package app wires configuration into live components. The App is built
// once at process start and handed to commands explicitly; nothing in the
// repository keeps ambient client or config state.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/harborworks/trawl/pkg/answer"
	answerollama "github.com/harborworks/trawl/pkg/answer/ollama"
	"github.com/harborworks/trawl/pkg/config"
	"github.com/harborworks/trawl/pkg/embeddings"
	embedollama "github.com/harborworks/trawl/pkg/embeddings/ollama"
	"github.com/harborworks/trawl/pkg/eventstream"
	eventskafka "github.com/harborworks/trawl/pkg/eventstream/kafka"
	"github.com/harborworks/trawl/pkg/eventstream/nop"
	"github.com/harborworks/trawl/pkg/ingest"
	"github.com/harborworks/trawl/pkg/store"
	"github.com/harborworks/trawl/pkg/store/memory"
	"github.com/harborworks/trawl/pkg/store/opensearch"
	"github.com/harborworks/trawl/pkg/store/qdrant"
)

// App is the explicit context object shared by every command: one store
// connection, one embedder, one event publisher, built from one config load.
type App struct {
	Cfg       *config.Config
	Logger    *zap.Logger
	Store     store.Driver
	Embedder  embeddings.Embedder
	Publisher eventstream.Publisher
}

// New validates cfg and opens the store driver and event publisher.
// Connection failures surface here so commands can exit with a clear
// message instead of an unhandled fault mid-operation.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	driver, err := OpenStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	publisher, err := OpenPublisher(cfg, logger)
	if err != nil {
		driver.Close()
		return nil, err
	}

	return &App{
		Cfg:       cfg,
		Logger:    logger,
		Store:     driver,
		Publisher: publisher,
	}, nil
}

// WithEmbedder opens the configured embedder on the App. Split out because
// check/preview/delete never embed anything.
func (a *App) WithEmbedder() (*App, error) {
	embedder, err := OpenEmbedder(a.Cfg)
	if err != nil {
		return nil, err
	}
	a.Embedder = embedder
	return a, nil
}

// Close releases every component the App opened.
func (a *App) Close() {
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
	if a.Publisher != nil {
		_ = a.Publisher.Close()
	}
	if a.Store != nil {
		_ = a.Store.Close()
	}
}

// Schema derives the index schema from configuration.
func (a *App) Schema() store.Schema {
	return store.Schema{
		Name:       a.Cfg.Index.Name,
		Dimensions: a.Cfg.Embedding.Dimensions,
		Shards:     a.Cfg.Index.Shards,
		Replicas:   a.Cfg.Index.Replicas,
	}
}

// Strategy parses the configured identifier strategy. Validate has already
// rejected unknown names by the time this is called.
func (a *App) Strategy() ingest.Strategy {
	strategy, _ := ingest.ParseStrategy(a.Cfg.Index.IDStrategy)
	return strategy
}

// OpenStore builds the configured store driver.
func OpenStore(cfg *config.Config, logger *zap.Logger) (store.Driver, error) {
	switch cfg.Store.Provider {
	case "opensearch":
		return opensearch.NewDriver(opensearch.Config{
			URL:   cfg.Store.Target,
			Index: cfg.Index.Name,
		}, logger)
	case "qdrant":
		return qdrant.NewDriver(qdrant.Config{
			Target:     cfg.Store.Target,
			Collection: cfg.Index.Name,
			APIKey:     cfg.Store.APIKey,
		}, logger)
	case "memory":
		return memory.NewDriver(), nil
	default:
		return nil, fmt.Errorf("unknown store provider %q (available: opensearch, qdrant, memory)", cfg.Store.Provider)
	}
}

// OpenEmbedder builds the configured embedder.
func OpenEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "ollama":
		return embedollama.NewEmbedder(embedollama.Config{
			BaseURL: cfg.Embedding.Target,
			Model:   cfg.Embedding.Model,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (available: ollama)", cfg.Embedding.Provider)
	}
}

// OpenGenerator builds the configured text generator.
func OpenGenerator(cfg *config.Config) (answer.Generator, error) {
	return answerollama.NewGenerator(answerollama.Config{
		BaseURL: cfg.Generation.Target,
		Model:   cfg.Generation.Model,
	})
}

// OpenPublisher builds the configured event publisher.
func OpenPublisher(cfg *config.Config, logger *zap.Logger) (eventstream.Publisher, error) {
	switch cfg.Events.Provider {
	case "", "nop":
		return nop.NewPublisher(), nil
	case "kafka":
		return eventskafka.NewPublisher(eventskafka.Config{
			Brokers: cfg.Events.Brokers,
			Topic:   cfg.Events.Topic,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown events provider %q (available: nop, kafka)", cfg.Events.Provider)
	}
}
