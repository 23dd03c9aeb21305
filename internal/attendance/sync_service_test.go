package attendance

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	attendanceerrors "go-madrasah/internal/attendance/errors"
	"go-madrasah/internal/events"
	"go-madrasah/internal/shared/timeofday"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestService_SyncOffline(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()

	nine := timeofday.New(9, 0)
	stored := map[string]*Attendance{
		"early": {ID: uuid.New(), PersonID: uuid.New(), Status: StatusPresent, CheckIn: &nine},
		"late":  {ID: uuid.New(), PersonID: uuid.New(), Status: StatusLate, CheckIn: ptrTime(timeofday.New(9, 40))},
	}
	byPerson := map[string]*Attendance{}
	for _, a := range stored {
		byPerson[a.PersonID.String()] = a
	}

	deps.repo.findByPersonAndDateFn = func(ctx context.Context, tenantID, personID string, date time.Time) (*Attendance, error) {
		if a, ok := byPerson[personID]; ok {
			return a, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	var created []*Attendance
	deps.repo.createFn = func(ctx context.Context, a *Attendance) error {
		created = append(created, a)
		return nil
	}
	var updated []*Attendance
	deps.repo.updateFn = func(ctx context.Context, a *Attendance) error {
		updated = append(updated, a)
		return nil
	}

	newStudent := uuid.NewString()
	batch := SyncBatch{
		DeviceID: "gate-1",
		Records: []SyncRecord{
			{PersonID: newStudent, PersonName: "Yusuf", Date: "2026-03-04"},
			{PersonID: stored["early"].PersonID.String(), Date: "2026-03-04", CheckIn: ptr("09:10")},
			{PersonID: stored["late"].PersonID.String(), Date: "2026-03-04", CheckIn: ptr("09:05"), CheckOut: ptr("15:00")},
			{PersonID: "bogus", Date: "2026-03-04"},
			{PersonID: uuid.NewString(), Date: "03/04/2026"},
		},
	}

	expectTx(t, deps.sqlMock, true)
	res, err := deps.service.SyncOffline(ctx, deps.tenantID, teacher, batch)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Synced)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 1, res.ConflictsResolved)
	assert.Equal(t, 2, res.Failed)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())

	assert.Len(t, created, 1)
	assert.Equal(t, StatusAbsent, created[0].Status)
	assert.Equal(t, SourceBiometricSync, created[0].Source)
	assert.Equal(t, "gate-1", *created[0].DeviceID)

	assert.Len(t, updated, 1)
	assert.Equal(t, "09:05", updated[0].CheckIn.String())
	assert.Nil(t, updated[0].CheckOut)
	assert.Equal(t, StatusLate, updated[0].Status)

	assert.Len(t, deps.repo.syncLogs, 1)
	log := deps.repo.syncLogs[0]
	assert.Equal(t, res.SyncLogID, log.ID.String())
	assert.Equal(t, 1, log.RecordsSynced)
	assert.Equal(t, 2, log.RecordsFailed)

	assert.Len(t, deps.outbox.events, 1)
	event := deps.outbox.events[0]
	assert.Equal(t, events.AttendanceSyncedTopic, event.Topic)
	assert.Equal(t, deps.tenantID, event.TenantID)
	var payload events.AttendanceSyncedEvent
	assert.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, "gate-1", payload.DeviceID)
	assert.Equal(t, 1, payload.ConflictsResolved)

	assert.Len(t, deps.notifier.requests, 1)
	assert.Equal(t, "Yusuf", deps.notifier.requests[0].Data["student_name"])
}

func TestService_SyncOffline_ReplayIsDuplicate(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()

	rows := map[string]*Attendance{}
	deps.repo.findByPersonAndDateFn = func(ctx context.Context, tenantID, personID string, date time.Time) (*Attendance, error) {
		if a, ok := rows[personID]; ok {
			return a, nil
		}
		return nil, gorm.ErrRecordNotFound
	}
	deps.repo.createFn = func(ctx context.Context, a *Attendance) error {
		rows[a.PersonID.String()] = a
		return nil
	}

	batch := SyncBatch{DeviceID: "gate-2", Records: []SyncRecord{
		{PersonID: uuid.NewString(), Date: "2026-03-04", CheckIn: ptr("08:50")},
		{PersonID: uuid.NewString(), Date: "2026-03-04", CheckIn: ptr("08:58")},
	}}

	expectTx(t, deps.sqlMock, true)
	first, err := deps.service.SyncOffline(ctx, deps.tenantID, teacher, batch)
	assert.NoError(t, err)
	assert.Equal(t, 2, first.Synced)

	expectTx(t, deps.sqlMock, true)
	second, err := deps.service.SyncOffline(ctx, deps.tenantID, teacher, batch)
	assert.NoError(t, err)
	assert.Zero(t, second.Synced)
	assert.Equal(t, 2, second.Duplicates)
	assert.NotEqual(t, first.SyncLogID, second.SyncLogID)
}

func TestService_SyncOffline_CreateRace(t *testing.T) {
	deps := setupServiceTest(t)
	deps.repo.createFn = func(ctx context.Context, a *Attendance) error {
		return &pgconn.PgError{Code: "23505"}
	}

	expectTx(t, deps.sqlMock, true)
	res, err := deps.service.SyncOffline(context.Background(), deps.tenantID, teacher, SyncBatch{
		DeviceID: "gate-3",
		Records:  []SyncRecord{{PersonID: uuid.NewString(), Date: "2026-03-04"}},
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Duplicates)
	assert.Empty(t, deps.notifier.requests)
}

func TestService_SyncOffline_Validation(t *testing.T) {
	deps := setupServiceTest(t)

	_, err := deps.service.SyncOffline(context.Background(), "", teacher, SyncBatch{DeviceID: "x", Records: []SyncRecord{{}}})
	assert.Error(t, err)

	_, err = deps.service.SyncOffline(context.Background(), deps.tenantID, teacher, SyncBatch{DeviceID: "x"})
	assert.ErrorIs(t, err, attendanceerrors.ErrEmptyBatch)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestEarlierCheckIn(t *testing.T) {
	eight := timeofday.New(8, 0)
	nine := timeofday.New(9, 0)

	assert.True(t, earlierCheckIn(&eight, &nine))
	assert.False(t, earlierCheckIn(&nine, &eight))
	assert.False(t, earlierCheckIn(&nine, &nine))
	assert.True(t, earlierCheckIn(&nine, nil))
	assert.False(t, earlierCheckIn(nil, &nine))
	assert.False(t, earlierCheckIn(nil, nil))
}

func ptrTime(t timeofday.TimeOfDay) *timeofday.TimeOfDay { return &t }
