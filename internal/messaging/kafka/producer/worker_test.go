package producer

import (
	"context"
	"errors"
	"testing"

	"go-madrasah/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeOutboxRepo struct {
	kafka.OutboxRepository
	pending []kafka.OutboxEvent
	sent    []string
	failed  map[string]string
}

func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.pending, nil
}

func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	if f.failed == nil {
		f.failed = map[string]string{}
	}
	f.failed[id] = reason
	return nil
}

type fakeWriter struct {
	messages []kafkago.Message
	failOn   string
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if string(m.Value) == w.failOn {
			return errors.New("broker unavailable")
		}
		w.messages = append(w.messages, m)
	}
	return nil
}

func TestRelayPending(t *testing.T) {
	repo := &fakeOutboxRepo{pending: []kafka.OutboxEvent{
		{ID: "e1", TenantID: "t1", EventType: "payroll.locked", Topic: "topic-a", Payload: []byte(`{"a":1}`), RequestID: "rid-1"},
		{ID: "e2", TenantID: "t1", EventType: "payroll.locked", Topic: "topic-a", Payload: []byte(`boom`)},
		{ID: "e3", TenantID: "t2", EventType: "attendance.synced", Topic: "topic-b", Payload: []byte(`{"b":2}`)},
	}}
	writer := &fakeWriter{failOn: "boom"}

	sent, err := RelayPending(context.Background(), repo, writer, zap.NewNop())

	assert.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"e1", "e3"}, repo.sent)
	assert.Equal(t, "broker unavailable", repo.failed["e2"])
	assert.Len(t, writer.messages, 2)
	assert.Equal(t, []byte("t1"), writer.messages[0].Key)
	assert.Contains(t, writer.messages[0].Headers, kafkago.Header{Key: "request_id", Value: []byte("rid-1")})
	assert.NotContains(t, writer.messages[1].Headers, kafkago.Header{Key: "request_id", Value: []byte("")})
}

func TestRelayPending_Empty(t *testing.T) {
	sent, err := RelayPending(context.Background(), &fakeOutboxRepo{}, &fakeWriter{}, zap.NewNop())
	assert.NoError(t, err)
	assert.Zero(t, sent)
}
