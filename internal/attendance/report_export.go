package attendance

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const monthlySheet = "Monthly"

var monthlyHeaders = []string{
	"Name", "Person ID", "Days", "Present", "Late", "Half Day", "Absent", "Holiday", "Attendance %",
}

// ExportMonthlyXLSX renders Monthly as a workbook with one row per person and
// a totals row.
func (s *reportService) ExportMonthlyXLSX(ctx context.Context, tenantID string, q MonthlyReportQuery) ([]byte, string, error) {
	report, err := s.Monthly(ctx, tenantID, q)
	if err != nil {
		return nil, "", err
	}

	buf, err := renderMonthlyWorkbook(report)
	if err != nil {
		s.logger.Error("render monthly workbook failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, "", err
	}
	filename := fmt.Sprintf("attendance_%s_%04d-%02d.xlsx", report.PersonType, report.Year, report.Month)
	return buf, filename, nil
}

func renderMonthlyWorkbook(report MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", monthlySheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2F5597"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Attendance %s %04d-%02d (%s to %s)",
		report.PersonType, report.Year, report.Month, report.DateFrom, report.DateTo)
	if err := f.SetCellValue(monthlySheet, "A1", title); err != nil {
		return nil, err
	}
	if err := f.MergeCell(monthlySheet, "A1", "I1"); err != nil {
		return nil, err
	}

	for i, h := range monthlyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(monthlySheet, cell, h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(monthlySheet, "A3", "I3", headerStyle); err != nil {
		return nil, err
	}

	row := 4
	for _, p := range report.Persons {
		values := []any{p.PersonName, p.PersonID, p.TotalDays, p.Present, p.Late, p.HalfDay, p.Absent, p.Holiday, p.AttendanceRate}
		if err := setRow(f, row, values); err != nil {
			return nil, err
		}
		row++
	}

	sum := report.Summary
	totals := []any{"Total", "", sum.Total, sum.Present, sum.Late, sum.HalfDay, sum.Absent, sum.Holiday, sum.AttendanceRate}
	if err := setRow(f, row, totals); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(monthlySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("I%d", row), headerStyle); err != nil {
		return nil, err
	}

	_ = f.SetColWidth(monthlySheet, "A", "A", 28)
	_ = f.SetColWidth(monthlySheet, "B", "B", 38)
	_ = f.SetColWidth(monthlySheet, "C", "I", 12)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(monthlySheet, cell, &values)
}
