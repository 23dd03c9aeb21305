package attendance

import (
	"context"
	"errors"
	"strings"

	attendanceerrors "go-madrasah/internal/attendance/errors"
	"go-madrasah/internal/events"
	"go-madrasah/internal/messaging/kafka"
	"go-madrasah/internal/shared/apperror"
	"go-madrasah/internal/shared/timeofday"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	syncOutcomeSynced    = "synced"
	syncOutcomeDuplicate = "duplicate"
	syncOutcomeConflict  = "conflict_resolved"
	syncOutcomeFailed    = "failed"
)

type syncOutcome string

// SyncOffline reconciles a device batch record by record. There is no batch
// transaction: a failing record is counted and the rest still apply.
// Replaying a batch only produces duplicates.
func (s *service) SyncOffline(ctx context.Context, tenantID string, actor Actor, batch SyncBatch) (SyncResult, error) {
	log := s.logger.With(zap.String("tenant_id", tenantID), zap.String("device_id", batch.DeviceID))

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return SyncResult{}, apperror.ErrTenantRequired
	}
	if len(batch.Records) == 0 {
		return SyncResult{}, attendanceerrors.ErrEmptyBatch
	}

	log.Info("offline sync started", zap.Int("records", len(batch.Records)))

	var res SyncResult
	for i, rec := range batch.Records {
		outcome, err := s.syncRecord(ctx, tenantUUID, batch.DeviceID, rec)
		if err != nil {
			log.Warn("offline sync record failed",
				zap.Int("index", i),
				zap.String("person_id", rec.PersonID),
				zap.String("date", rec.Date),
				zap.Error(err),
			)
		}
		switch outcome {
		case syncOutcomeSynced:
			res.Synced++
		case syncOutcomeDuplicate:
			res.Duplicates++
		case syncOutcomeConflict:
			res.ConflictsResolved++
		default:
			res.Failed++
		}
	}

	s.metrics.ObserveSync(syncOutcomeSynced, res.Synced)
	s.metrics.ObserveSync(syncOutcomeDuplicate, res.Duplicates)
	s.metrics.ObserveSync(syncOutcomeConflict, res.ConflictsResolved)
	s.metrics.ObserveSync(syncOutcomeFailed, res.Failed)

	now := s.clock.Now()
	syncLog := &SyncLog{
		ID:                uuid.New(),
		TenantID:          tenantUUID,
		DeviceID:          batch.DeviceID,
		SyncType:          "offline_attendance",
		RecordsSynced:     res.Synced,
		DuplicatesSkipped: res.Duplicates,
		ConflictsResolved: res.ConflictsResolved,
		RecordsFailed:     res.Failed,
		SyncedBy:          optionalUUID(actor.UserID),
		SyncedAt:          now,
	}
	res.SyncLogID = syncLog.ID.String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("offline sync log begin tx failed", zap.Error(err))
		return SyncResult{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).CreateSyncLog(ctx, syncLog); err != nil {
		log.Error("offline sync log persist failed", zap.Error(err))
		return SyncResult{}, err
	}

	if s.outbox != nil {
		event, err := kafka.NewEvent(ctx, tenantID, "attendance_sync", syncLog.ID.String(),
			"attendance.synced", events.AttendanceSyncedTopic,
			events.AttendanceSyncedEvent{
				EventType:         "attendance.synced",
				TenantID:          tenantID,
				SyncLogID:         syncLog.ID.String(),
				DeviceID:          batch.DeviceID,
				Synced:            res.Synced,
				Duplicates:        res.Duplicates,
				ConflictsResolved: res.ConflictsResolved,
				Failed:            res.Failed,
				OccurredAt:        now,
			})
		if err != nil {
			return SyncResult{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			log.Error("offline sync outbox persist failed", zap.Error(err))
			return SyncResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("offline sync log commit failed", zap.Error(err))
		return SyncResult{}, err
	}

	log.Info("offline sync completed",
		zap.Int("synced", res.Synced),
		zap.Int("duplicates", res.Duplicates),
		zap.Int("conflicts_resolved", res.ConflictsResolved),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

func (s *service) syncRecord(ctx context.Context, tenantID uuid.UUID, deviceID string, rec SyncRecord) (syncOutcome, error) {
	personID, err := uuid.Parse(rec.PersonID)
	if err != nil {
		return syncOutcomeFailed, attendanceerrors.ErrInvalidPersonID
	}
	date, err := parseDate(rec.Date)
	if err != nil {
		return syncOutcomeFailed, err
	}
	classID, err := parseOptionalUUID(rec.ClassID, attendanceerrors.ErrInvalidClassID)
	if err != nil {
		return syncOutcomeFailed, err
	}
	// An unparseable punch is stored without a time; classification still
	// falls back to present for it.
	checkIn, _ := parseOptionalTime(rec.CheckIn)
	checkOut, _ := parseOptionalTime(rec.CheckOut)

	existing, err := s.repo.FindByPersonAndDate(ctx, tenantID.String(), rec.PersonID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return syncOutcomeFailed, err
	}

	now := s.clock.Now()
	if err == nil {
		if !earlierCheckIn(checkIn, existing.CheckIn) {
			return syncOutcomeDuplicate, nil
		}
		// only the punch-in moves; check-out and status stay as stored
		existing.CheckIn = checkIn
		existing.Source = SourceBiometricSync
		existing.DeviceID = &deviceID
		existing.SyncedAt = &now
		existing.UpdatedAt = now
		if err := s.repo.Update(ctx, existing); err != nil {
			return syncOutcomeFailed, err
		}
		return syncOutcomeConflict, nil
	}

	personType := rec.PersonType
	if personType != PersonStaff {
		personType = PersonStudent
	}

	c := s.classify(ctx, tenantID.String(), rec.ClassID, rec.Shift, rec.CheckIn, rec.CheckOut, date)
	row := &Attendance{
		ID:             uuid.New(),
		TenantID:       tenantID,
		PersonID:       personID,
		PersonType:     personType,
		PersonName:     strings.TrimSpace(rec.PersonName),
		ClassID:        classID,
		Shift:          rec.Shift,
		AttendanceDate: date,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Status:         c.Status,
		StatusReason:   c.Reason,
		Source:         SourceBiometricSync,
		DeviceID:       &deviceID,
		SyncedAt:       &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		// Another writer inserted the same person/day first.
		if apperror.IsUniqueViolation(err) {
			return syncOutcomeDuplicate, nil
		}
		return syncOutcomeFailed, err
	}

	s.notifyAlert(*row)
	return syncOutcomeSynced, nil
}

// earlierCheckIn reports whether candidate beats current. A missing check-in
// on either side counts as 23:59.
func earlierCheckIn(candidate, current *timeofday.TimeOfDay) bool {
	c, cur := timeofday.EndOfDay, timeofday.EndOfDay
	if candidate != nil {
		c = *candidate
	}
	if current != nil {
		cur = *current
	}
	return c.Before(cur)
}
