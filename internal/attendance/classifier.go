package attendance

import (
	"fmt"
	"strings"
	"time"

	"go-madrasah/internal/attendancerule"
	"go-madrasah/internal/shared/timeofday"
)

// Classification is the outcome of Classify. Fallback is set when the status
// came from a default instead of the rule, e.g. an unparseable check-in.
type Classification struct {
	Status   string `json:"status"`
	Reason   string `json:"reason"`
	Fallback bool   `json:"fallback"`
}

// Classify derives a status from a rule and raw check-in/check-out values.
// It never fails: bad input or a panic yields present with Fallback set.
// Times compare at minute precision and thresholds are strict, so any check-in
// within the late cutoff minute (09:15:45 for a 09:15 cutoff) is on time.
func Classify(rule attendancerule.AttendanceRule, checkIn, checkOut *string, date time.Time) (c Classification) {
	defer func() {
		if r := recover(); r != nil {
			c = Classification{Status: StatusPresent, Reason: "Default status", Fallback: true}
		}
	}()

	if rule.Excludes(date.Weekday()) {
		return Classification{Status: StatusHoliday, Reason: fmt.Sprintf("%s is a holiday", date.Weekday())}
	}

	if checkIn == nil || strings.TrimSpace(*checkIn) == "" {
		return Classification{Status: StatusAbsent, Reason: "No check-in recorded"}
	}

	in, err := timeofday.Parse(*checkIn)
	if err != nil {
		return Classification{Status: StatusPresent, Reason: "Time parse issue - default present", Fallback: true}
	}
	in = in.TruncateMinute()

	if in.After(rule.AbsentCutoff()) {
		return Classification{
			Status: StatusAbsent,
			Reason: fmt.Sprintf("Checked in after %d minutes", rule.AbsentThresholdMinutes),
		}
	}
	if in.After(rule.LateCutoff()) {
		return Classification{
			Status: StatusLate,
			Reason: fmt.Sprintf("Checked in after %d minutes", rule.LateThresholdMinutes),
		}
	}

	if checkOut != nil {
		if out, err := timeofday.Parse(*checkOut); err == nil && out.TruncateMinute().Before(rule.HalfDayCheckoutTime) {
			return Classification{
				Status: StatusHalfDay,
				Reason: fmt.Sprintf("Left before %s", rule.HalfDayCheckoutTime),
			}
		}
	}

	return Classification{Status: StatusPresent, Reason: "On time"}
}

// IsAlertStatus reports statuses that trigger a guardian notification.
func IsAlertStatus(status string) bool {
	return status == StatusAbsent || status == StatusLate
}
