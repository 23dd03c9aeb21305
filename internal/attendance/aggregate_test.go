package attendance_test

import (
	"fmt"
	"testing"
	"time"

	"go-madrasah/internal/attendance"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func records(personID uuid.UUID, start time.Time, statuses ...string) []attendance.Attendance {
	out := make([]attendance.Attendance, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, attendance.Attendance{
			PersonID:       personID,
			PersonName:     "Student " + personID.String()[:4],
			AttendanceDate: start.AddDate(0, 0, i),
			Status:         s,
		})
	}
	return out
}

func TestSummarize(t *testing.T) {
	t.Run("empty has zero rate", func(t *testing.T) {
		got := attendance.Summarize(nil)
		assert.Equal(t, 0, got.Total)
		assert.Equal(t, 0.0, got.AttendanceRate)
	})

	t.Run("counts and rate", func(t *testing.T) {
		recs := records(uuid.New(), monday, "present", "present", "late", "absent", "half_day", "holiday")
		got := attendance.Summarize(recs)
		assert.Equal(t, 6, got.Total)
		assert.Equal(t, 2, got.Present)
		assert.Equal(t, 1, got.Late)
		assert.Equal(t, 1, got.Absent)
		assert.Equal(t, 1, got.HalfDay)
		assert.Equal(t, 1, got.Holiday)
		assert.Equal(t, 33.33, got.AttendanceRate)
	})
}

func TestAbsenceStreak(t *testing.T) {
	assert.Equal(t, 2, attendance.AbsenceStreak([]string{"present", "absent", "absent", "late", "absent"}))
	assert.Equal(t, 3, attendance.AbsenceStreak([]string{"absent", "absent", "absent"}))
	assert.Equal(t, 0, attendance.AbsenceStreak(nil))
	assert.Equal(t, 1, attendance.AbsenceStreak([]string{"absent", "half_day", "absent"}))
}

func TestMonthlyByPerson(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	recs := append(records(a, monday, "present", "absent"), records(b, monday, "present", "present", "late", "present")...)

	got := attendance.MonthlyByPerson(recs)
	assert.Len(t, got, 2)
	for _, p := range got {
		switch p.PersonID {
		case a.String():
			assert.Equal(t, 2, p.TotalDays)
			assert.Equal(t, 50.0, p.AttendanceRate)
		case b.String():
			assert.Equal(t, 4, p.TotalDays)
			assert.Equal(t, 75.0, p.AttendanceRate)
		default:
			t.Fatalf("unexpected person %s", p.PersonID)
		}
	}
}

func TestClassWise(t *testing.T) {
	classA := uuid.New()
	recs := records(uuid.New(), monday, "present", "absent", "late")
	for i := range recs {
		recs[i].ClassID = &classA
	}
	recs = append(recs, attendance.Attendance{PersonID: uuid.New(), Status: "present"})

	got := attendance.ClassWise(recs)
	assert.Len(t, got, 1)
	assert.Equal(t, classA.String(), got[0].ClassID)
	assert.Equal(t, 3, got[0].Total)
	assert.Equal(t, 33.33, got[0].AttendanceRate)
}

func TestAnalyzeRisk(t *testing.T) {
	streaky := uuid.New()
	chronic := uuid.New()
	fine := uuid.New()

	// Out-of-order input; streak must follow dates.
	streakRecs := records(streaky, monday, "absent", "absent", "absent", "present", "present", "present", "present", "present", "present", "present", "present", "present", "present", "present", "present", "present", "present", "present", "present", "present")
	streakRecs[0], streakRecs[10] = streakRecs[10], streakRecs[0]

	recs := append(streakRecs, records(chronic, monday, "absent", "present", "absent", "late", "present")...)
	recs = append(recs, records(fine, monday, "present", "present", "late", "present")...)

	report := attendance.AnalyzeRisk(recs)

	assert.Equal(t, len(recs), report.Overall.TotalRecords)
	assert.Equal(t, 3, report.Overall.UniqueStudents)

	assert.Len(t, report.Chronic, 1)
	assert.Equal(t, chronic.String(), report.Chronic[0].PersonID)
	assert.Equal(t, 40.0, report.Chronic[0].AbsenceRate)
	assert.Equal(t, "high", report.Chronic[0].RiskLevel)

	assert.Len(t, report.AtRisk, 2)
	assert.Equal(t, chronic.String(), report.AtRisk[0].PersonID)
	assert.Equal(t, "High absence rate", report.AtRisk[0].RiskReason)
	assert.Equal(t, 20.0, report.AtRisk[0].LateRate)
	assert.Equal(t, streaky.String(), report.AtRisk[1].PersonID)
	assert.Equal(t, 3, report.AtRisk[1].AbsenceStreak)
	assert.Equal(t, 15.0, report.AtRisk[1].AbsenceRate)
	assert.Equal(t, "Consecutive absences", report.AtRisk[1].RiskReason)

	assert.Len(t, report.Recommendations, 2)
	assert.Equal(t, "intervention", report.Recommendations[0].Type)
}

func TestAnalyzeRisk_MediumLevelAndTopTen(t *testing.T) {
	var recs []attendance.Attendance
	for i := 0; i < 12; i++ {
		// 1 absence in 4 days = 25% -> chronic medium
		recs = append(recs, records(uuid.New(), monday, "present", "absent", "present", "present")...)
	}

	report := attendance.AnalyzeRisk(recs)
	assert.Len(t, report.Chronic, 10)
	assert.Equal(t, "medium", report.Chronic[0].RiskLevel)
	assert.Len(t, report.AtRisk, 10)
	assert.Contains(t, report.Recommendations[0].Message, fmt.Sprintf("%d students", 12))
}

func TestPeriodDays(t *testing.T) {
	assert.Equal(t, 7, attendance.PeriodDays("week"))
	assert.Equal(t, 30, attendance.PeriodDays("month"))
	assert.Equal(t, 90, attendance.PeriodDays("quarter"))
	assert.Equal(t, 90, attendance.PeriodDays(""))
}
