package events

import "time"

const PayrollLockedTopic = "madrasah.payroll.locked.v1"

// PayrollLockedEvent is emitted once per run when it becomes immutable.
// Consumers apply advance repayments for every item in the run.
type PayrollLockedEvent struct {
	EventType  string    `json:"event_type"`
	RunID      string    `json:"run_id"`
	TenantID   string    `json:"tenant_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	LockedBy   string    `json:"locked_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
