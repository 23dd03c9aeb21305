package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-madrasah/internal/events"
	"go-madrasah/internal/messaging/kafka/consumer"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeApplier struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (f *fakeApplier) ApplyAdvanceRepayments(ctx context.Context, tenantID, runID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, tenantID+"/"+runID)
	if f.err != nil {
		return 0, f.err
	}
	return 2, nil
}

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	r.mu.Lock()
	if len(r.messages) == 0 {
		r.mu.Unlock()
		r.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	r.mu.Unlock()
	return msg, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func lockedEvent(t *testing.T, tenantID, runID string) []byte {
	t.Helper()
	body, err := json.Marshal(events.PayrollLockedEvent{
		EventType:  "payroll.locked",
		TenantID:   tenantID,
		RunID:      runID,
		Year:       2026,
		Month:      2,
		OccurredAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)
	return body
}

func TestHandlePayrollLocked(t *testing.T) {
	tenantID := uuid.NewString()
	runID := uuid.NewString()

	t.Run("applies repayments", func(t *testing.T) {
		applier := &fakeApplier{}
		event, updated, err := consumer.HandlePayrollLocked(context.Background(), lockedEvent(t, tenantID, runID), applier)
		assert.NoError(t, err)
		assert.Equal(t, runID, event.RunID)
		assert.Equal(t, 2, updated)
		assert.Equal(t, []string{tenantID + "/" + runID}, applier.calls)
	})

	t.Run("malformed json", func(t *testing.T) {
		applier := &fakeApplier{}
		_, _, err := consumer.HandlePayrollLocked(context.Background(), []byte("{"), applier)
		assert.ErrorIs(t, err, consumer.ErrMalformedEvent)
		assert.Empty(t, applier.calls)
	})

	t.Run("missing run id", func(t *testing.T) {
		_, _, err := consumer.HandlePayrollLocked(context.Background(), lockedEvent(t, tenantID, ""), &fakeApplier{})
		assert.ErrorIs(t, err, consumer.ErrMalformedEvent)
	})

	t.Run("service failure is not malformed", func(t *testing.T) {
		applier := &fakeApplier{err: errors.New("db down")}
		_, _, err := consumer.HandlePayrollLocked(context.Background(), lockedEvent(t, tenantID, runID), applier)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, consumer.ErrMalformedEvent)
	})
}

func TestConsumePayrollLocked_CommitsHandledAndMalformed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		messages: []kafkago.Message{
			{Offset: 1, Value: lockedEvent(t, uuid.NewString(), uuid.NewString())},
			{Offset: 2, Value: []byte("not json")},
		},
	}
	applier := &fakeApplier{}

	consumer.ConsumePayrollLocked(ctx, reader, applier, zap.NewNop())

	assert.Equal(t, []int64{1, 2}, reader.committed)
	assert.Len(t, applier.calls, 1)
}

func TestConsumePayrollLocked_LeavesFailedUncommitted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel:   cancel,
		messages: []kafkago.Message{{Offset: 7, Value: lockedEvent(t, uuid.NewString(), uuid.NewString())}},
	}

	consumer.ConsumePayrollLocked(ctx, reader, &fakeApplier{err: errors.New("db down")}, zap.NewNop())

	assert.Empty(t, reader.committed)
}
