package leave

import (
	"slices"
	"strings"
	"time"

	"go-madrasah/internal/shared/clock"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	TypeSick            = "sick"
	TypeCasual          = "casual"
	TypeAnnual          = "annual"
	TypeMaternity       = "maternity"
	TypePaternity       = "paternity"
	TypeUnpaid          = "unpaid"
	TypeLeaveWithoutPay = "leave_without_pay"
	TypeLWP             = "lwp"
	TypeOther           = "other"
)

var unpaidTypes = []string{TypeUnpaid, TypeLeaveWithoutPay, TypeLWP}

// Leave is a staff leave request. Approved leaves overlapping a payroll month
// feed the payroll bridge.
type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_tenant_status"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`

	LeaveType string    `gorm:"type:varchar(30);not null;default:'casual'"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates"`
	TotalDays int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_tenant_status"`
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt      *time.Time
	RejectionReason *string `gorm:"type:text"`
	CancelledAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Leave) TableName() string { return "leave_requests" }

// Days counts calendar days in [StartDate, EndDate].
func (l Leave) Days() int {
	return int(l.EndDate.Sub(l.StartDate).Hours()/24) + 1
}

// DaysWithin counts the leave's days inside [from, to], both inclusive.
func (l Leave) DaysWithin(from, to time.Time) int {
	start, end := clock.DateOf(l.StartDate), clock.DateOf(l.EndDate)
	if start.Before(from) {
		start = from
	}
	if end.After(to) {
		end = to
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// IsUnpaidType matches the unpaid leave types and any custom type whose name
// contains "unpaid".
func IsUnpaidType(leaveType string) bool {
	t := strings.ToLower(strings.TrimSpace(leaveType))
	return slices.Contains(unpaidTypes, t) || strings.Contains(t, "unpaid")
}
