package attendance

import (
	"fmt"
	"math"
	"sort"
)

const riskListLimit = 10

type StatusSummary struct {
	Total          int     `json:"total"`
	Present        int     `json:"present"`
	Absent         int     `json:"absent"`
	Late           int     `json:"late"`
	HalfDay        int     `json:"half_day"`
	Holiday        int     `json:"holiday"`
	AttendanceRate float64 `json:"attendance_rate"`
}

func (s *StatusSummary) add(status string) {
	s.Total++
	switch status {
	case StatusPresent:
		s.Present++
	case StatusAbsent:
		s.Absent++
	case StatusLate:
		s.Late++
	case StatusHalfDay:
		s.HalfDay++
	case StatusHoliday:
		s.Holiday++
	}
}

func (s *StatusSummary) finish() {
	s.AttendanceRate = rate(s.Present, s.Total)
}

// rate is part/total as a percentage rounded to 2 decimals, 0 for an empty total.
func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func Summarize(records []Attendance) StatusSummary {
	var s StatusSummary
	for _, r := range records {
		s.add(r.Status)
	}
	s.finish()
	return s
}

type PersonSummary struct {
	PersonID   string `json:"person_id"`
	PersonName string `json:"person_name"`
	TotalDays  int    `json:"total_days"`
	StatusSummary
}

// MonthlyByPerson groups records per person, ordered by name then id.
func MonthlyByPerson(records []Attendance) []PersonSummary {
	byPerson := make(map[string]*PersonSummary)
	for _, r := range records {
		id := r.PersonID.String()
		ps, ok := byPerson[id]
		if !ok {
			ps = &PersonSummary{PersonID: id, PersonName: r.PersonName}
			byPerson[id] = ps
		}
		ps.add(r.Status)
	}

	out := make([]PersonSummary, 0, len(byPerson))
	for _, ps := range byPerson {
		ps.finish()
		ps.TotalDays = ps.Total
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PersonName != out[j].PersonName {
			return out[i].PersonName < out[j].PersonName
		}
		return out[i].PersonID < out[j].PersonID
	})
	return out
}

type ClassSummary struct {
	ClassID string `json:"class_id"`
	StatusSummary
}

// ClassWise skips records without a class.
func ClassWise(records []Attendance) []ClassSummary {
	byClass := make(map[string]*ClassSummary)
	for _, r := range records {
		if r.ClassID == nil {
			continue
		}
		id := r.ClassID.String()
		cs, ok := byClass[id]
		if !ok {
			cs = &ClassSummary{ClassID: id}
			byClass[id] = cs
		}
		cs.add(r.Status)
	}

	out := make([]ClassSummary, 0, len(byClass))
	for _, cs := range byClass {
		cs.finish()
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClassID < out[j].ClassID })
	return out
}

type RiskEntry struct {
	PersonID      string  `json:"person_id"`
	PersonName    string  `json:"person_name"`
	TotalDays     int     `json:"total_days"`
	Absences      int     `json:"absences"`
	LateArrivals  int     `json:"late_arrivals"`
	AbsenceStreak int     `json:"absence_streak"`
	AbsenceRate   float64 `json:"absence_rate"`
	LateRate      float64 `json:"late_rate"`
	RiskLevel     string  `json:"risk_level,omitempty"`
	RiskReason    string  `json:"risk_reason,omitempty"`
}

type OverallStats struct {
	TotalRecords          int     `json:"total_records"`
	UniqueStudents        int     `json:"unique_students"`
	OverallAttendanceRate float64 `json:"overall_attendance_rate"`
}

type Recommendation struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

type RiskReport struct {
	Period          string           `json:"period"`
	DateFrom        string           `json:"date_from"`
	DateTo          string           `json:"date_to"`
	Overall         OverallStats     `json:"overall_stats"`
	AtRisk          []RiskEntry      `json:"at_risk_students"`
	Chronic         []RiskEntry      `json:"chronic_absentees"`
	Recommendations []Recommendation `json:"recommendations"`
}

// PeriodDays maps a named analysis window to days. Unknown names get the
// widest window.
func PeriodDays(period string) int {
	switch period {
	case "week":
		return 7
	case "month":
		return 30
	default:
		return 90
	}
}

// AbsenceStreak is the longest run of consecutive absent statuses. Any other
// status, late included, resets the run.
func AbsenceStreak(statuses []string) int {
	longest, current := 0, 0
	for _, s := range statuses {
		if s == StatusAbsent {
			current++
			if current > longest {
				longest = current
			}
			continue
		}
		current = 0
	}
	return longest
}

// AnalyzeRisk flags chronic absentees (absence rate above 20%) and at-risk
// students (streak of 3+ or absence rate above 15%). Records are ordered by
// date per person before streaks are computed.
func AnalyzeRisk(records []Attendance) RiskReport {
	type history struct {
		name    string
		records []Attendance
	}
	byPerson := make(map[string]*history)
	present := 0
	for _, r := range records {
		if r.Status == StatusPresent {
			present++
		}
		id := r.PersonID.String()
		h, ok := byPerson[id]
		if !ok {
			h = &history{name: r.PersonName}
			byPerson[id] = h
		}
		h.records = append(h.records, r)
	}

	ids := make([]string, 0, len(byPerson))
	for id := range byPerson {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	report := RiskReport{
		Overall: OverallStats{
			TotalRecords:          len(records),
			UniqueStudents:        len(byPerson),
			OverallAttendanceRate: rate(present, len(records)),
		},
		AtRisk:          []RiskEntry{},
		Chronic:         []RiskEntry{},
		Recommendations: []Recommendation{},
	}

	for _, id := range ids {
		h := byPerson[id]
		sort.SliceStable(h.records, func(i, j int) bool {
			return h.records[i].AttendanceDate.Before(h.records[j].AttendanceDate)
		})

		entry := RiskEntry{PersonID: id, PersonName: h.name, TotalDays: len(h.records)}
		statuses := make([]string, 0, len(h.records))
		for _, r := range h.records {
			statuses = append(statuses, r.Status)
			switch r.Status {
			case StatusAbsent:
				entry.Absences++
			case StatusLate:
				entry.LateArrivals++
			}
		}
		entry.AbsenceStreak = AbsenceStreak(statuses)

		absenceRatio := float64(entry.Absences) / float64(entry.TotalDays)
		entry.AbsenceRate = round2(absenceRatio * 100)
		entry.LateRate = round2(float64(entry.LateArrivals) / float64(entry.TotalDays) * 100)

		if absenceRatio > 0.20 {
			chronic := entry
			chronic.RiskLevel = "medium"
			if absenceRatio > 0.30 {
				chronic.RiskLevel = "high"
			}
			report.Chronic = append(report.Chronic, chronic)
		}

		if entry.AbsenceStreak >= 3 || absenceRatio > 0.15 {
			atRisk := entry
			atRisk.RiskReason = "High absence rate"
			if entry.AbsenceStreak >= 3 {
				atRisk.RiskReason = "Consecutive absences"
			}
			report.AtRisk = append(report.AtRisk, atRisk)
		}
	}

	chronicCount, atRiskCount := len(report.Chronic), len(report.AtRisk)
	report.Chronic = topByAbsenceRate(report.Chronic)
	report.AtRisk = topByAbsenceRate(report.AtRisk)

	if n := chronicCount; n > 0 {
		report.Recommendations = append(report.Recommendations, Recommendation{
			Type:     "intervention",
			Message:  fmt.Sprintf("%d students have chronic absenteeism (>20%%). Consider parent meetings.", n),
			Priority: "high",
		})
	}
	if n := atRiskCount; n > 0 {
		report.Recommendations = append(report.Recommendations, Recommendation{
			Type:     "monitoring",
			Message:  fmt.Sprintf("%d students are at risk. Enable closer monitoring.", n),
			Priority: "medium",
		})
	}

	return report
}

func topByAbsenceRate(entries []RiskEntry) []RiskEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AbsenceRate > entries[j].AbsenceRate
	})
	if len(entries) > riskListLimit {
		entries = entries[:riskListLimit]
	}
	return entries
}
