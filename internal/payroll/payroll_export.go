package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const runSheet = "Payroll"

var runHeaders = []string{
	"Code", "Name", "Department", "Gross", "Absent Days", "Late Days", "Half Days",
	"Unpaid Leave", "Deductions", "Bonus", "Extra Deduction", "Net Payable",
}

func (s *service) ExportXLSX(ctx context.Context, tenantID, runID string) ([]byte, string, error) {
	run, err := s.findRun(ctx, s.repo, tenantID, runID, true)
	if err != nil {
		return nil, "", err
	}

	body, err := renderRunWorkbook(*run)
	if err != nil {
		s.logger.Error("render payroll workbook failed", zap.String("run_id", runID), zap.Error(err))
		return nil, "", err
	}
	return body, fmt.Sprintf("payroll_%s.xlsx", run.RunNumber), nil
}

func renderRunWorkbook(run Run) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", runSheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#385723"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Payroll %s (%04d-%02d) %s", run.RunNumber, run.Year, run.Month, run.Status)
	if err := f.SetCellValue(runSheet, "A1", title); err != nil {
		return nil, err
	}
	if err := f.MergeCell(runSheet, "A1", "L1"); err != nil {
		return nil, err
	}

	header := make([]any, 0, len(runHeaders))
	for _, h := range runHeaders {
		header = append(header, h)
	}
	if err := setSheetRow(f, 3, header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(runSheet, "A3", "L3", headerStyle); err != nil {
		return nil, err
	}

	row := 4
	for _, it := range run.Items {
		att := it.AttendanceSummary.Data()
		lv := it.LeaveSummary.Data()
		values := []any{
			it.EmployeeCode, it.EmployeeName, it.Department, num(it.GrossSalary),
			att.AbsentDays, att.LateDays, att.HalfDayCount, lv.UnpaidLeaveDays,
			num(it.TotalDeductions), num(it.BonusAmount), num(it.ExtraDeduction), num(it.NetPayable),
		}
		if err := setSheetRow(f, row, values); err != nil {
			return nil, err
		}
		row++
	}

	totals := []any{
		"Total", "", "", num(run.TotalGross), "", "", "", "",
		num(run.TotalDeductions), num(run.TotalBonus), "", num(run.TotalNetPayable),
	}
	if err := setSheetRow(f, row, totals); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(runSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("L%d", row), headerStyle); err != nil {
		return nil, err
	}

	_ = f.SetColWidth(runSheet, "A", "A", 14)
	_ = f.SetColWidth(runSheet, "B", "B", 28)
	_ = f.SetColWidth(runSheet, "C", "L", 14)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func num(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func setSheetRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(runSheet, cell, &values)
}
