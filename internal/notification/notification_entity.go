package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification is an in-app inbox row. RecipientID is nil for role broadcasts.
type Notification struct {
	ID          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_notifications_inbox,priority:1"`
	RecipientID *uuid.UUID        `gorm:"type:uuid;index:idx_notifications_inbox,priority:2"`
	TargetRole  string            `gorm:"type:varchar(20);not null"`
	EventType   string            `gorm:"type:varchar(50);not null"`
	Title       string            `gorm:"type:varchar(200);not null"`
	Body        string            `gorm:"type:text;not null"`
	Priority    string            `gorm:"type:varchar(10);not null;default:normal"`
	Data        datatypes.JSONMap `gorm:"type:jsonb"`
	Channel     string            `gorm:"type:varchar(20);not null;default:in_app"`
	IsRead      bool              `gorm:"not null;default:false"`
	ReadAt      *time.Time
	CreatedAt   time.Time `gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Settings are per tenant; a missing row means DefaultSettings. No gorm
// defaults on the toggles, so switching one off is stored as false.
type Settings struct {
	TenantID                       uuid.UUID `gorm:"type:uuid;primaryKey"`
	AttendanceNotificationsEnabled bool      `gorm:"not null"`
	EmailEnabled                   bool      `gorm:"not null"`
	UpdatedAt                      time.Time
}

func (Settings) TableName() string {
	return "notification_settings"
}

func DefaultSettings(tenantID uuid.UUID) Settings {
	return Settings{TenantID: tenantID, AttendanceNotificationsEnabled: true}
}

// Contact is where a person's notifications go: the guardian for a student,
// the employee themself for staff.
type Contact struct {
	UserID *uuid.UUID
	Email  string
	Name   string
}
