package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-madrasah/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrMalformedEvent marks messages that can never be processed. They are
// committed and skipped.
var ErrMalformedEvent = errors.New("malformed event")

// AdvanceApplier is satisfied by payroll.Service.
type AdvanceApplier interface {
	ApplyAdvanceRepayments(ctx context.Context, tenantID, runID string) (int, error)
}

// MessageReader is the subset of *kafkago.Reader the consumer loop needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

func HandlePayrollLocked(ctx context.Context, value []byte, payroll AdvanceApplier) (events.PayrollLockedEvent, int, error) {
	var event events.PayrollLockedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return event, 0, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if event.TenantID == "" || event.RunID == "" {
		return event, 0, fmt.Errorf("%w: tenant_id and run_id are required", ErrMalformedEvent)
	}

	updated, err := payroll.ApplyAdvanceRepayments(ctx, event.TenantID, event.RunID)
	if err != nil {
		return event, 0, err
	}
	return event, updated, nil
}

func ConsumePayrollLocked(
	ctx context.Context,
	reader MessageReader,
	payroll AdvanceApplier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_locked")
	log.Info("payroll locked consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll locked consumer stopped")
				return
			}
			log.Error("fetch payroll locked message failed", zap.Error(err))
			continue
		}

		event, updated, err := HandlePayrollLocked(ctx, msg.Value, payroll)
		if err != nil {
			if errors.Is(err, ErrMalformedEvent) {
				log.Error("decode payroll locked event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			// left uncommitted so the group redelivers after a restart
			log.Error("apply advance repayments failed",
				zap.String("run_id", event.RunID),
				zap.String("tenant_id", event.TenantID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll locked message failed", zap.Error(err))
			continue
		}

		log.Info("advance repayments applied",
			zap.String("run_id", event.RunID),
			zap.String("tenant_id", event.TenantID),
			zap.Int("advances_updated", updated),
		)
	}
}
