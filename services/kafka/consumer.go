package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"lead-relay/logger"
	"lead-relay/models"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Consumer reads lead events from a topic, for example to mirror leads into a CRM
// or to tail them from the terminal.
type Consumer struct {
	reader messageReader
	logger *logger.Logger
}

// NewConsumer builds a reader in consumer group groupID. An empty groupID reads
// the partition directly from the last offset.
func NewConsumer(brokers []string, topic, groupID string, log *logger.Logger) (*Consumer, error) {
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
	if len(valid) == 0 {
		return nil, errors.New("kafka: no valid brokers configured")
	}
	if topic == "" {
		return nil, errors.New("kafka: topic is required")
	}

	cfg := kafka.ReaderConfig{
		Brokers:        valid,
		Topic:          topic,
		GroupID:        groupID,
		MaxBytes:       10e6,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: time.Second,
		QueueCapacity:  100,
	}
	if groupID != "" {
		cfg.CommitInterval = time.Second
		cfg.SessionTimeout = 20 * time.Second
		cfg.RebalanceTimeout = 60 * time.Second
	} else {
		cfg.StartOffset = kafka.LastOffset
	}

	log.Info("Kafka consumer initialized", "brokers", valid, "topic", topic, "group", groupID)
	return &Consumer{reader: kafka.NewReader(cfg), logger: log}, nil
}

// Run hands every lead event to handle until ctx is done. Messages that are not
// lead events are logged and skipped; a handler error stops the loop.
func (c *Consumer) Run(ctx context.Context, handle func(models.LeadSubmittedEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			c.logger.Warn("Error reading Kafka message", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		event, ok := c.decode(msg)
		if !ok {
			continue
		}
		if err := handle(event); err != nil {
			return err
		}
	}
}

func (c *Consumer) decode(msg kafka.Message) (models.LeadSubmittedEvent, bool) {
	var event models.LeadSubmittedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Warn("Skipping malformed message", "offset", msg.Offset, "error", err)
		return event, false
	}
	if event.EventType != models.EventLeadSubmitted {
		c.logger.Debug("Skipping unknown event type", "offset", msg.Offset, "event_type", event.EventType)
		return event, false
	}
	return event, true
}

// Close stops the reader.
func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}
