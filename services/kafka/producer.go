package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"lead-relay/logger"
)

const writeTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes JSON events to a single topic. A Producer built without
// brokers is disabled and Publish is a no-op.
type Producer struct {
	mu     sync.Mutex
	writer messageWriter
	topic  string
	logger *logger.Logger
}

// NewProducer initializes a Kafka writer for brokers. Empty brokers disable publishing.
func NewProducer(brokers []string, topic string, log *logger.Logger) *Producer {
	if log == nil {
		log = logger.Default()
	}
	log = log.With("component", "kafka")

	var valid []string
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			valid = append(valid, b)
		}
	}

	p := &Producer{topic: topic, logger: log}
	if len(valid) == 0 || topic == "" {
		log.Info("Kafka is disabled (KAFKA_BROKERS is empty)")
		return p
	}

	p.writer = &kafka.Writer{
		Addr:                   kafka.TCP(valid...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           writeTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	log.Info("Kafka producer initialized", "brokers", valid, "topic", topic)
	return p
}

// Enabled reports whether events are actually sent.
func (p *Producer) Enabled() bool {
	if p == nil {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writer != nil
}

// Publish marshals value to JSON and writes it once, keyed by key.
func (p *Producer) Publish(ctx context.Context, key string, value any) error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	w := p.writer
	p.mu.Unlock()
	if w == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		p.logger.Error("error marshaling Kafka message", "error", err)
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: payload}); err != nil {
		p.logger.Warn("Kafka publish failed", "topic", p.topic, "key", key, "error", err)
		return err
	}
	p.logger.Debug("published Kafka event", "topic", p.topic, "key", key)
	return nil
}

// Close gracefully closes the Kafka producer
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.writer = nil
	return err
}
