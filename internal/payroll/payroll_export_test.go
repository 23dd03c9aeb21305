package payroll

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

func TestRenderRunWorkbook(t *testing.T) {
	run := Run{
		ID:        uuid.New(),
		RunNumber: "PR-202602-004",
		Year:      2026,
		Month:     2,
		Status:    StatusLocked,
		Items: []Item{{
			EmployeeCode:      "EMP-000001",
			EmployeeName:      "Hafiz Rahman",
			GrossSalary:       dec("26000"),
			TotalDeductions:   dec("2500"),
			NetPayable:        dec("23500"),
			AttendanceSummary: datatypes.NewJSONType(AttendanceSummary{AbsentDays: 2}),
			LeaveSummary:      datatypes.NewJSONType(LeaveSummary{UnpaidLeaveDays: 1}),
		}},
	}
	recomputeTotals(&run)

	body, err := renderRunWorkbook(run)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	assert.NoError(t, err)
	defer f.Close()

	title, _ := f.GetCellValue(runSheet, "A1")
	assert.Equal(t, "Payroll PR-202602-004 (2026-02) LOCKED", title)
	header, _ := f.GetCellValue(runSheet, "L3")
	assert.Equal(t, "Net Payable", header)
	name, _ := f.GetCellValue(runSheet, "B4")
	assert.Equal(t, "Hafiz Rahman", name)
	absent, _ := f.GetCellValue(runSheet, "E4")
	assert.Equal(t, "2", absent)
	total, _ := f.GetCellValue(runSheet, "A5")
	assert.Equal(t, "Total", total)
	net, _ := f.GetCellValue(runSheet, "L5")
	assert.Equal(t, "23500", net)
}
