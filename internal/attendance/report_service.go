package attendance

import (
	"context"
	"time"

	attendanceerrors "go-madrasah/internal/attendance/errors"
	"go-madrasah/internal/shared/apperror"
	"go-madrasah/internal/shared/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DailyReport struct {
	Date     string        `json:"date"`
	Students StatusSummary `json:"students"`
	Staff    StatusSummary `json:"staff"`
}

type MonthlyReport struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	PersonType string          `json:"person_type"`
	DateFrom   string          `json:"date_from"`
	DateTo     string          `json:"date_to"`
	Summary    StatusSummary   `json:"summary"`
	Persons    []PersonSummary `json:"persons"`
}

type ClassWiseReport struct {
	Date    string         `json:"date"`
	Classes []ClassSummary `json:"classes"`
}

type MonthlyReportQuery struct {
	Year       int    `form:"year" binding:"required,min=2000,max=2100"`
	Month      int    `form:"month" binding:"required,min=1,max=12"`
	PersonType string `form:"person_type" binding:"omitempty,oneof=student staff"`
}

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type ReportService interface {
	Daily(ctx context.Context, tenantID, date string) (DailyReport, error)
	Monthly(ctx context.Context, tenantID string, q MonthlyReportQuery) (MonthlyReport, error)
	ClassWise(ctx context.Context, tenantID, date string) (ClassWiseReport, error)
	RiskInsights(ctx context.Context, tenantID, period string) (RiskReport, error)
	ExportMonthlyXLSX(ctx context.Context, tenantID string, q MonthlyReportQuery) ([]byte, string, error)
}

type reportService struct {
	repo   Repository
	clock  clock.Clock
	logger *zap.Logger
}

func NewReportService(repo Repository, clk clock.Clock, logger ...*zap.Logger) ReportService {
	l := zap.L().Named("attendance.report")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.report")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &reportService{repo: repo, clock: clk, logger: l}
}

// reportDate defaults to today when empty.
func (s *reportService) reportDate(v string) (time.Time, error) {
	if v == "" {
		return clock.Today(s.clock), nil
	}
	return parseDate(v)
}

func (s *reportService) Daily(ctx context.Context, tenantID, date string) (DailyReport, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return DailyReport{}, apperror.ErrTenantRequired
	}
	day, err := s.reportDate(date)
	if err != nil {
		return DailyReport{}, err
	}

	rows, err := s.repo.FindInRange(ctx, tenantID, RangeQuery{From: day, To: day})
	if err != nil {
		s.logger.Error("daily report query failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return DailyReport{}, err
	}

	var students, staff []Attendance
	for _, r := range rows {
		if r.PersonType == PersonStaff {
			staff = append(staff, r)
			continue
		}
		students = append(students, r)
	}
	return DailyReport{
		Date:     formatDate(day),
		Students: Summarize(students),
		Staff:    Summarize(staff),
	}, nil
}

func (s *reportService) monthlyRecords(ctx context.Context, tenantID string, q MonthlyReportQuery) (MonthlyReport, []Attendance, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return MonthlyReport{}, nil, apperror.ErrTenantRequired
	}
	if q.Month < 1 || q.Month > 12 || q.Year < 2000 {
		return MonthlyReport{}, nil, attendanceerrors.ErrInvalidPeriod
	}
	if q.PersonType == "" {
		q.PersonType = PersonStudent
	}

	from, to := clock.MonthRange(q.Year, time.Month(q.Month))
	rows, err := s.repo.FindInRange(ctx, tenantID, RangeQuery{From: from, To: to, PersonType: q.PersonType})
	if err != nil {
		s.logger.Error("monthly report query failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return MonthlyReport{}, nil, err
	}
	return MonthlyReport{
		Year:       q.Year,
		Month:      q.Month,
		PersonType: q.PersonType,
		DateFrom:   formatDate(from),
		DateTo:     formatDate(to),
	}, rows, nil
}

func (s *reportService) Monthly(ctx context.Context, tenantID string, q MonthlyReportQuery) (MonthlyReport, error) {
	report, rows, err := s.monthlyRecords(ctx, tenantID, q)
	if err != nil {
		return MonthlyReport{}, err
	}
	report.Summary = Summarize(rows)
	report.Persons = MonthlyByPerson(rows)
	return report, nil
}

func (s *reportService) ClassWise(ctx context.Context, tenantID, date string) (ClassWiseReport, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return ClassWiseReport{}, apperror.ErrTenantRequired
	}
	day, err := s.reportDate(date)
	if err != nil {
		return ClassWiseReport{}, err
	}
	rows, err := s.repo.FindInRange(ctx, tenantID, RangeQuery{From: day, To: day, PersonType: PersonStudent})
	if err != nil {
		s.logger.Error("class report query failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return ClassWiseReport{}, err
	}
	return ClassWiseReport{Date: formatDate(day), Classes: ClassWise(rows)}, nil
}

// RiskInsights analyses student records for the window ending today.
func (s *reportService) RiskInsights(ctx context.Context, tenantID, period string) (RiskReport, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return RiskReport{}, apperror.ErrTenantRequired
	}
	if period == "" {
		period = "month"
	}
	to := clock.Today(s.clock)
	from := to.AddDate(0, 0, -PeriodDays(period))

	rows, err := s.repo.FindInRange(ctx, tenantID, RangeQuery{From: from, To: to, PersonType: PersonStudent})
	if err != nil {
		s.logger.Error("risk insights query failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return RiskReport{}, err
	}

	report := AnalyzeRisk(rows)
	report.Period = period
	report.DateFrom = formatDate(from)
	report.DateTo = formatDate(to)
	s.logger.Debug("risk insights computed",
		zap.String("tenant_id", tenantID),
		zap.Int("records", len(rows)),
		zap.Int("at_risk", len(report.AtRisk)),
		zap.Int("chronic", len(report.Chronic)),
	)
	return report, nil
}
