package attendance

import (
	"time"

	"go-madrasah/internal/shared/timeofday"

	"github.com/google/uuid"
)

const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusHalfDay = "half_day"
	StatusHoliday = "holiday"
)

const (
	SourceManual        = "manual"
	SourceManualBulk    = "manual_bulk"
	SourceBiometricSync = "biometric_sync"
	SourceLiveClass     = "live_class"
)

const (
	PersonStudent = "student"
	PersonStaff   = "staff"
)

const (
	EditStatusPending  = "pending"
	EditStatusApproved = "approved"
	EditStatusRejected = "rejected"
)

const (
	AuditManualAttendance = "MANUAL_ATTENDANCE"
	AuditEditAttendance   = "EDIT_ATTENDANCE"
	AuditApproveEdit      = "APPROVE_EDIT"
	AuditRejectEdit       = "REJECT_EDIT"
)

// Attendance is one person's record for one day. (tenant_id, person_id,
// attendance_date) is unique; writes upsert on it.
type Attendance struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID            `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:uq_attendances_person_date,priority:1;index:idx_attendances_tenant_date,priority:1"`
	PersonID       uuid.UUID            `gorm:"column:person_id;type:uuid;not null;uniqueIndex:uq_attendances_person_date,priority:2"`
	PersonType     string               `gorm:"column:person_type;type:varchar(10);not null;default:student"`
	PersonName     string               `gorm:"column:person_name;type:varchar(150)"`
	ClassID        *uuid.UUID           `gorm:"column:class_id;type:uuid;index"`
	Shift          *string              `gorm:"column:shift;type:varchar(30)"`
	AttendanceDate time.Time            `gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendances_person_date,priority:3;index:idx_attendances_tenant_date,priority:2"`
	CheckIn        *timeofday.TimeOfDay `gorm:"column:check_in;type:time"`
	CheckOut       *timeofday.TimeOfDay `gorm:"column:check_out;type:time"`
	Status         string               `gorm:"column:status;type:varchar(20);not null"`
	StatusReason   string               `gorm:"column:status_reason;type:varchar(120)"`
	Source         string               `gorm:"column:source;type:varchar(30);not null;default:manual"`
	DeviceID       *string              `gorm:"column:device_id;type:varchar(100)"`
	RecordedBy     *uuid.UUID           `gorm:"column:recorded_by;type:uuid"`
	Remarks        *string              `gorm:"column:remarks;type:text"`
	LastEditedBy   *uuid.UUID           `gorm:"column:last_edited_by;type:uuid"`
	LastEditedAt   *time.Time           `gorm:"column:last_edited_at"`
	EditReason     *string              `gorm:"column:edit_reason;type:text"`
	SyncedAt       *time.Time           `gorm:"column:synced_at"`
	CreatedAt      time.Time            `gorm:"column:created_at"`
	UpdatedAt      time.Time            `gorm:"column:updated_at"`
}

func (Attendance) TableName() string {
	return "attendances"
}

type SyncLog struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	DeviceID          string     `gorm:"type:varchar(100);not null"`
	SyncType          string     `gorm:"type:varchar(30);not null;default:offline_attendance"`
	RecordsSynced     int        `gorm:"not null"`
	DuplicatesSkipped int        `gorm:"not null"`
	ConflictsResolved int        `gorm:"not null"`
	RecordsFailed     int        `gorm:"not null"`
	SyncedBy          *uuid.UUID `gorm:"type:uuid"`
	SyncedAt          time.Time  `gorm:"not null"`
}

func (SyncLog) TableName() string {
	return "attendance_sync_logs"
}

// EditRequest proposes a status change for a past record. The partial unique
// index allows one pending request per record.
type EditRequest struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_edit_requests_tenant_status"`
	RecordID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_edit_requests_pending,where:status = 'pending'"`
	OriginalStatus  string     `gorm:"type:varchar(20);not null"`
	NewStatus       string     `gorm:"type:varchar(20);not null"`
	EditReason      string     `gorm:"type:text;not null"`
	Status          string     `gorm:"type:varchar(20);not null;default:pending;index:idx_edit_requests_tenant_status"`
	RequestedBy     uuid.UUID  `gorm:"type:uuid;not null"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (EditRequest) TableName() string {
	return "attendance_edit_requests"
}

type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_attendance_audit_tenant_time,priority:1"`
	Action    string     `gorm:"type:varchar(40);not null;index"`
	RecordID  *uuid.UUID `gorm:"type:uuid"`
	PersonID  *uuid.UUID `gorm:"type:uuid;index"`
	Date      *time.Time `gorm:"type:date"`
	OldStatus *string    `gorm:"type:varchar(20)"`
	NewStatus *string    `gorm:"type:varchar(20)"`
	Reason    *string    `gorm:"type:text"`
	UserID    *uuid.UUID `gorm:"type:uuid"`
	UserRole  string     `gorm:"type:varchar(30)"`
	CreatedAt time.Time  `gorm:"index:idx_attendance_audit_tenant_time,priority:2"`
}

func (AuditLog) TableName() string {
	return "attendance_audit_logs"
}
