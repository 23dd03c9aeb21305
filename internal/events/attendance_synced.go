package events

import "time"

const AttendanceSyncedTopic = "madrasah.attendance.synced.v1"

type AttendanceSyncedEvent struct {
	EventType         string    `json:"event_type"`
	TenantID          string    `json:"tenant_id"`
	SyncLogID         string    `json:"sync_log_id"`
	DeviceID          string    `json:"device_id"`
	Synced            int       `json:"synced"`
	Duplicates        int       `json:"duplicates"`
	ConflictsResolved int       `json:"conflicts_resolved"`
	Failed            int       `json:"failed"`
	OccurredAt        time.Time `json:"occurred_at"`
}
