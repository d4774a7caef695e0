package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"tradeJournal/internal/app"
	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"
)

// journalKey partitions events that are not about a single trade.
const journalKey = "journal"

// TradeEvent is the message published for every journal change.
type TradeEvent struct {
	EventType   domain.ChangeKind   `json:"eventType"`
	TradeID     string              `json:"tradeId,omitempty"`
	Active      *domain.ActiveTrade `json:"active,omitempty"`
	Closed      *domain.ClosedTrade `json:"closed,omitempty"`
	ActiveCount int                 `json:"activeCount"`
	ClosedCount int                 `json:"closedCount"`
	Timestamp   time.Time           `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config holds configuration for the Kafka publisher.
type Config struct {
	Brokers []string
	Topic   string
	Logger  ports.Logger
}

// Publisher is an app.Observer that publishes journal changes to Kafka.
// The writer runs in async mode so publishing never blocks a store mutation.
type Publisher struct {
	writer messageWriter
	topic  string
	logger ports.Logger
	now    func() time.Time
}

// NewPublisher creates a Kafka publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Kafka publisher")
	}
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, fmt.Errorf("kafka brokers and topic are required: %w", ports.ErrConfigurationError)
	}

	logger := cfg.Logger
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error(context.Background(), err, "Failed to publish journal events", map[string]interface{}{
					"count": len(messages),
				})
			}
		},
	}
	return newWithWriter(writer, cfg.Topic, logger), nil
}

func newWithWriter(w messageWriter, topic string, logger ports.Logger) *Publisher {
	return &Publisher{writer: w, topic: topic, logger: logger, now: time.Now}
}

var _ app.Observer = (*Publisher)(nil)

// OnChange publishes one event per change. Failures are logged only.
func (p *Publisher) OnChange(ctx context.Context, change app.Change) {
	event := p.buildEvent(change)
	if err := p.publish(ctx, eventKey(change), event); err != nil {
		p.logger.Error(ctx, err, "Failed to publish journal event", map[string]interface{}{
			"eventType": string(change.Kind),
			"topic":     p.topic,
		})
	}
}

func (p *Publisher) buildEvent(change app.Change) TradeEvent {
	event := TradeEvent{
		EventType:   change.Kind,
		ActiveCount: len(change.Snapshot.Active),
		ClosedCount: len(change.Snapshot.Closed),
		Timestamp:   p.now().UTC(),
	}
	if change.TradeID == uuid.Nil {
		return event
	}
	event.TradeID = change.TradeID.String()

	for i := range change.Snapshot.Active {
		if change.Snapshot.Active[i].ID == change.TradeID {
			t := change.Snapshot.Active[i]
			event.Active = &t
			return event
		}
	}
	for i := range change.Snapshot.Closed {
		if change.Snapshot.Closed[i].ID == change.TradeID {
			t := change.Snapshot.Closed[i]
			event.Closed = &t
			return event
		}
	}
	return event
}

func eventKey(change app.Change) string {
	if change.TradeID == uuid.Nil {
		return journalKey
	}
	return change.TradeID.String()
}

func (p *Publisher) publish(ctx context.Context, key string, event TradeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
