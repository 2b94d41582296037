// Package kafka publishes batch events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/harborworks/trawl/pkg/eventstream"
)

// DefaultTopic is the topic batch events land on when none is configured.
const DefaultTopic = "trawl.batches"

// Publisher writes JSON-encoded batch events to Kafka, keyed by index name
// so events for one index stay ordered within a partition.
type Publisher struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers is the list of bootstrap broker addresses.
	Brokers []string

	// Topic is the destination topic. Defaults to DefaultTopic if empty.
	Topic string
}

// NewPublisher creates a Kafka-backed eventstream publisher.
func NewPublisher(c Config, logger *zap.Logger) (*Publisher, error) {
	if len(c.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	topic := c.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(c.Brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}

	logger.Info("kafka event publisher ready",
		zap.Strings("brokers", c.Brokers),
		zap.String("topic", topic),
	)

	return &Publisher{writer: writer, logger: logger}, nil
}

// PublishBatch fills in event envelope fields and writes one message.
func (p *Publisher) PublishBatch(ctx context.Context, event *eventstream.BatchIndexedEvent) error {
	if event == nil {
		return eventstream.ErrNilBatchEvent
	}

	event.FillEnvelope()

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling batch event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.Index),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("writing batch event: %w", err)
	}

	p.logger.Debug("published batch event",
		zap.String("event_id", event.EventID),
		zap.String("index", event.Index),
	)

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ eventstream.Publisher = (*Publisher)(nil)
