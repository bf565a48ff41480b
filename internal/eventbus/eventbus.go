// Package eventbus publishes analysis-lifecycle events to Kafka so
// downstream systems (ticketing, notification, BI) can react to a
// document's obligations and conflicts without polling the analyzer.
// It is an ambient notification collaborator: internal/pipeline never
// imports it, and a failed publish never fails an analysis run.
package eventbus

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/google/uuid"

	"github.com/turtacn/layeredcontracts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/layeredcontracts/pkg/errors"
)

// EventType names the analysis-lifecycle events this bus publishes.
type EventType string

const (
	EventObligationExtracted EventType = "ObligationExtracted"
	EventConflictDetected    EventType = "ConflictDetected"
)

const (
	TopicObligations = "layeredcontracts.obligations"
	TopicConflicts   = "layeredcontracts.conflicts"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New(errors.CodeMessageQueueError, "eventbus: publisher is closed")

// Config holds the Kafka producer parameters for the event bus.
type Config struct {
	Brokers          []string
	ProducerRetries  int
	TimeoutMS        int
	AutoCreateTopics bool
	ReplicationFactor int
	NumPartitions    int
}

// Event is the envelope every published message carries, independent
// of which topic it lands on.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	DocumentID string    `json:"documentId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// ObligationExtractedPayload describes one obligation phrase surfaced
// by a pipeline run, keyed by its span so consumers can cross-reference
// it against internal/parties' accountability graph export.
type ObligationExtractedPayload struct {
	Span      string `json:"span"`
	Obligor   string `json:"obligor"`
	Type      string `json:"type"`
	Confidence float64 `json:"confidence"`
}

// ConflictDetectedPayload describes one conflict pair surfaced by
// internal/conflicts.DetectConflicts.
type ConflictDetectedPayload struct {
	SpanA string `json:"spanA"`
	SpanB string `json:"spanB"`
	Kind  string `json:"kind"`
}

// writer abstracts *kafka.Writer for testing.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Bus publishes analysis-lifecycle events.
type Bus struct {
	w      writer
	logger logging.Logger
	closed atomic.Bool
}

// New creates a Kafka-backed Bus. Topics are expected to already exist
// unless cfg.AutoCreateTopics is set, in which case kafka-go's writer
// lets the broker create them on first publish with the broker's own
// defaults; cfg.ReplicationFactor and cfg.NumPartitions are not applied.
func New(cfg Config, logger logging.Logger) (*Bus, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New(errors.CodeInvalidParam, "eventbus: at least one broker is required")
	}
	maxAttempts := cfg.ProducerRetries + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		MaxAttempts:            maxAttempts,
		WriteTimeout:           timeout,
		ReadTimeout:            timeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: cfg.AutoCreateTopics,
	}

	return &Bus{w: w, logger: logger}, nil
}

// PublishObligationExtracted emits one ObligationExtracted event per
// obligation phrase. documentID ties the event back to the document's
// internal/docarchive archival key and internal/auditstore run record.
func (b *Bus) PublishObligationExtracted(ctx context.Context, documentID string, payload ObligationExtractedPayload) error {
	return b.publish(ctx, TopicObligations, documentID, EventObligationExtracted, payload)
}

// PublishConflictDetected emits one ConflictDetected event per
// detected conflict pair.
func (b *Bus) PublishConflictDetected(ctx context.Context, documentID string, payload ConflictDetectedPayload) error {
	return b.publish(ctx, TopicConflicts, documentID, EventConflictDetected, payload)
}

func (b *Bus) publish(ctx context.Context, topic, documentID string, evtType EventType, payload any) error {
	if b.closed.Load() {
		return ErrPublisherClosed
	}

	evt := Event{
		ID:         uuid.NewString(),
		Type:       evtType,
		DocumentID: documentID,
		OccurredAt: time.Now(),
		Payload:    payload,
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return errors.Wrap(err, errors.CodeMessageQueueError, "eventbus: failed to encode event")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(documentID),
		Value: body,
	}
	if err := b.w.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.CodeMessageQueueError, "eventbus: publish failed")
	}

	b.logger.Debug("event published", logging.String("topic", topic), logging.String("type", string(evtType)))
	return nil
}

// Close releases the underlying Kafka writer. Safe to call more than
// once.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	return b.w.Close()
}
