package attendancerule

import (
	"strings"
	"time"

	"go-madrasah/internal/shared/timeofday"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	RuleTypeGeneral   = "general"
	RuleTypeClassWise = "class_wise"
	RuleTypeShiftWise = "shift_wise"
)

// Thresholds and is_active have no gorm default so an explicit 0 or false
// survives Create. DefaultRule holds the fallback values.
type AttendanceRule struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TenantID uuid.UUID  `gorm:"type:uuid;not null;index:idx_attendance_rules_tenant_active" json:"tenant_id"`
	RuleType string     `gorm:"type:varchar(20);not null;default:'general'" json:"rule_type"`
	ClassID  *uuid.UUID `gorm:"type:uuid" json:"class_id,omitempty"`
	Shift    *string    `gorm:"type:varchar(30)" json:"shift,omitempty"`

	LateThresholdMinutes   int                 `gorm:"not null" json:"late_threshold_minutes"`
	AbsentThresholdMinutes int                 `gorm:"not null" json:"absent_threshold_minutes"`
	HalfDayCheckoutTime    timeofday.TimeOfDay `gorm:"type:time;not null" json:"half_day_checkout_time"`
	SchoolStartTime        timeofday.TimeOfDay `gorm:"type:time;not null" json:"school_start_time"`
	SchoolEndTime          timeofday.TimeOfDay `gorm:"type:time;not null" json:"school_end_time"`
	ExcludedDays           pq.StringArray      `gorm:"type:text[]" json:"excluded_days"`

	IsActive  bool           `gorm:"not null;index:idx_attendance_rules_tenant_active" json:"is_active"`
	CreatedBy *uuid.UUID     `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// DefaultRule applies when a tenant has no matching active rule.
func DefaultRule() AttendanceRule {
	return AttendanceRule{
		RuleType:               RuleTypeGeneral,
		LateThresholdMinutes:   15,
		AbsentThresholdMinutes: 60,
		HalfDayCheckoutTime:    timeofday.New(13, 0),
		SchoolStartTime:        timeofday.New(9, 0),
		SchoolEndTime:          timeofday.New(15, 0),
		ExcludedDays:           pq.StringArray{"friday"},
		IsActive:               true,
	}
}

// IsDefault reports whether the rule was synthesised rather than loaded.
func (r AttendanceRule) IsDefault() bool {
	return r.ID == uuid.Nil
}

// Excludes compares weekday names case-insensitively.
func (r AttendanceRule) Excludes(day time.Weekday) bool {
	for _, d := range r.ExcludedDays {
		if strings.EqualFold(strings.TrimSpace(d), day.String()) {
			return true
		}
	}
	return false
}

func (r AttendanceRule) LateCutoff() timeofday.TimeOfDay {
	return r.SchoolStartTime.Plus(r.LateThresholdMinutes)
}

func (r AttendanceRule) AbsentCutoff() timeofday.TimeOfDay {
	return r.SchoolStartTime.Plus(r.AbsentThresholdMinutes)
}
