package eventbus

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/layeredcontracts/internal/infrastructure/monitoring/logging"
)

type fakeWriter struct {
	messages []kafka.Message
	closed   bool
	failNext bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.failNext {
		return assert.AnError
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func newTestBus(w writer) *Bus {
	return &Bus{w: w, logger: logging.NewNopLogger()}
}

func TestPublishObligationExtractedEncodesEnvelope(t *testing.T) {
	fw := &fakeWriter{}
	b := newTestBus(fw)

	err := b.PublishObligationExtracted(context.Background(), "doc-1", ObligationExtractedPayload{
		Span: "0:0-0:10", Obligor: "Tenant", Type: "Duty", Confidence: 0.9,
	})
	require.NoError(t, err)
	require.Len(t, fw.messages, 1)

	var evt Event
	require.NoError(t, json.Unmarshal(fw.messages[0].Value, &evt))
	assert.Equal(t, EventObligationExtracted, evt.Type)
	assert.Equal(t, "doc-1", evt.DocumentID)
	assert.Equal(t, []byte("doc-1"), fw.messages[0].Key)
	assert.Equal(t, TopicObligations, fw.messages[0].Topic)
}

func TestPublishConflictDetectedUsesConflictTopic(t *testing.T) {
	fw := &fakeWriter{}
	b := newTestBus(fw)

	err := b.PublishConflictDetected(context.Background(), "doc-2", ConflictDetectedPayload{
		SpanA: "0:0-0:5", SpanB: "1:0-1:5", Kind: "ModalContradiction",
	})
	require.NoError(t, err)
	require.Len(t, fw.messages, 1)
	assert.Equal(t, TopicConflicts, fw.messages[0].Topic)
}

func TestPublishAfterCloseReturnsError(t *testing.T) {
	fw := &fakeWriter{}
	b := newTestBus(fw)
	require.NoError(t, b.Close())

	err := b.PublishObligationExtracted(context.Background(), "doc-3", ObligationExtractedPayload{})
	assert.ErrorIs(t, err, ErrPublisherClosed)
}

func TestPublishPropagatesWriterError(t *testing.T) {
	fw := &fakeWriter{failNext: true}
	b := newTestBus(fw)

	err := b.PublishConflictDetected(context.Background(), "doc-4", ConflictDetectedPayload{})
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	fw := &fakeWriter{}
	b := newTestBus(fw)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.True(t, fw.closed)
}

func TestNewRejectsEmptyBrokers(t *testing.T) {
	_, err := New(Config{}, logging.NewNopLogger())
	assert.Error(t, err)
}
