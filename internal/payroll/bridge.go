package payroll

import (
	"context"
	"strings"
	"time"

	"go-madrasah/internal/attendance"
	"go-madrasah/internal/employee"
	"go-madrasah/internal/leave"
	"go-madrasah/internal/shared/clock"

	"github.com/google/uuid"
)

const statusOnTime = "on_time"

type AttendanceSource interface {
	FindInRange(ctx context.Context, tenantID string, q attendance.RangeQuery) ([]attendance.Attendance, error)
}

type LeaveSource interface {
	ListApprovedOverlapping(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]leave.Leave, error)
}

// Bridge turns a month of raw staff attendance and approved leave into the
// summaries CalculateSalary consumes.
type Bridge struct {
	attendance AttendanceSource
	leaves     LeaveSource
}

func NewBridge(attendance AttendanceSource, leaves LeaveSource) *Bridge {
	return &Bridge{attendance: attendance, leaves: leaves}
}

// Build reads staff attendance for the employee's linked user account when
// there is one, since self check-in records the user id; otherwise the
// employee id is used.
func (b *Bridge) Build(
	ctx context.Context,
	tenantID string,
	emp employee.Employee,
	year, month int,
	settings Settings,
) (AttendanceSummary, LeaveSummary, error) {
	from, to := clock.MonthRange(year, time.Month(month))

	personID := emp.ID
	if emp.UserID != nil && *emp.UserID != uuid.Nil {
		personID = *emp.UserID
	}

	records, err := b.attendance.FindInRange(ctx, tenantID, attendance.RangeQuery{
		From:       from,
		To:         to,
		PersonType: attendance.PersonStaff,
		PersonID:   personID.String(),
	})
	if err != nil {
		return AttendanceSummary{}, LeaveSummary{}, err
	}

	leaves, err := b.leaves.ListApprovedOverlapping(ctx, tenantID, emp.ID.String(), from, to)
	if err != nil {
		return AttendanceSummary{}, LeaveSummary{}, err
	}

	return SummarizeAttendance(records, settings), SummarizeLeaves(leaves, from, to), nil
}

func SummarizeAttendance(records []attendance.Attendance, settings Settings) AttendanceSummary {
	var s AttendanceSummary
	for _, r := range records {
		switch strings.ToLower(r.Status) {
		case attendance.StatusPresent, statusOnTime:
			s.PresentDays++
		case attendance.StatusAbsent:
			s.AbsentDays++
		case attendance.StatusLate:
			s.LateDays++
			s.PresentDays++
		case attendance.StatusHalfDay:
			s.HalfDayCount++
		case attendance.StatusHoliday:
			s.Holidays++
		}
	}

	s.TotalWorkingDays = settings.WorkingDaysPerMonth - s.Holidays
	if s.TotalWorkingDays < 0 {
		s.TotalWorkingDays = 0
	}

	recorded := s.PresentDays + s.AbsentDays + s.HalfDayCount
	if settings.UnrecordedDaysAsAbsent && recorded < s.TotalWorkingDays {
		s.UnrecordedDays = s.TotalWorkingDays - recorded
		s.AbsentDays += s.UnrecordedDays
	}
	return s
}

// SummarizeLeaves counts the days of each leave that fall inside
// [monthStart, monthEnd].
func SummarizeLeaves(leaves []leave.Leave, monthStart, monthEnd time.Time) LeaveSummary {
	var s LeaveSummary
	for _, l := range leaves {
		days := l.DaysWithin(monthStart, monthEnd)
		if IsUnpaidLeave(l.LeaveType) {
			s.UnpaidLeaveDays += days
		} else {
			s.PaidLeaveDays += days
		}
	}
	return s
}

// IsUnpaidLeave reports whether a leave type is deducted from salary.
// Sick, casual, annual, maternity, paternity and unknown types are paid.
func IsUnpaidLeave(leaveType string) bool {
	return leave.IsUnpaidType(leaveType)
}
