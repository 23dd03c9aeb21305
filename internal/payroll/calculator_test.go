package payroll

import (
	"testing"

	"go-madrasah/internal/employee"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func deduction(items []LineItem, name string) (decimal.Decimal, bool) {
	for _, it := range items {
		if it.Name == name {
			return it.Amount, true
		}
	}
	return decimal.Zero, false
}

func TestCalculateSalary_AbsentDeductionFromDailyRate(t *testing.T) {
	settings := DefaultSettings(uuid.New())
	structure := &SalaryStructure{
		BasicSalary:        dec("20000"),
		HouseRentAllowance: dec("4000"),
		MedicalAllowance:   dec("2000"),
	}

	res := CalculateSalary(employee.Employee{}, structure, AttendanceSummary{AbsentDays: 2}, LeaveSummary{}, settings, nil)

	assert.True(t, res.GrossSalary.Equal(dec("26000")))
	assert.True(t, res.DailyRate.Equal(dec("1000")))
	absent, ok := deduction(res.Deductions, DeductionAbsent)
	assert.True(t, ok)
	assert.True(t, absent.Equal(dec("2000")))
	assert.Len(t, res.Deductions, 1)
	assert.True(t, res.NetSalary.Equal(dec("24000")))
	assert.True(t, res.UsedStructure)
	assert.Len(t, res.Earnings, 6)
}

func TestCalculateSalary_FlatSalaryFallback(t *testing.T) {
	settings := DefaultSettings(uuid.New())
	emp := employee.Employee{MonthlySalary: dec("13000")}

	res := CalculateSalary(emp, nil, AttendanceSummary{}, LeaveSummary{}, settings, nil)

	assert.False(t, res.UsedStructure)
	assert.True(t, res.GrossSalary.Equal(dec("13000")))
	basic, _ := deduction(res.Earnings, EarningBasic)
	assert.True(t, basic.Equal(dec("13000")))
	assert.Empty(t, res.Deductions)
	assert.True(t, res.TotalDeductions.IsZero())
	assert.True(t, res.NetSalary.Equal(dec("13000")))
}

func TestCalculateSalary_DeductionStack(t *testing.T) {
	settings := DefaultSettings(uuid.New())
	settings.AbsentDeductionPerDay = dec("300")
	settings.LateDeductionEnabled = true
	settings.LateDeductionAmount = dec("50")
	structure := &SalaryStructure{BasicSalary: dec("26000")}

	att := AttendanceSummary{AbsentDays: 1, HalfDayCount: 2, LateDays: 5}
	lv := LeaveSummary{UnpaidLeaveDays: 2, PaidLeaveDays: 3}
	advances := []Advance{
		{IsActive: true, RemainingAmount: dec("1000"), MonthlyDeduction: dec("500")},
		{IsActive: true, RemainingAmount: dec("0"), MonthlyDeduction: dec("700")},
		{IsActive: false, RemainingAmount: dec("900"), MonthlyDeduction: dec("300")},
	}

	res := CalculateSalary(employee.Employee{}, structure, att, lv, settings, advances)

	absent, _ := deduction(res.Deductions, DeductionAbsent)
	assert.True(t, absent.Equal(dec("900")), absent.String())
	halfDay, _ := deduction(res.Deductions, DeductionHalfDay)
	assert.True(t, halfDay.Equal(dec("1000")), halfDay.String())
	late, _ := deduction(res.Deductions, DeductionLate)
	assert.True(t, late.Equal(dec("100")), late.String())
	advance, _ := deduction(res.Deductions, DeductionAdvance)
	assert.True(t, advance.Equal(dec("500")), advance.String())

	assert.True(t, res.TotalDeductions.Equal(dec("2500")))
	assert.True(t, res.NetSalary.Equal(dec("23500")))
}

func TestCalculateSalary_LatePenaltyNeedsExcess(t *testing.T) {
	settings := DefaultSettings(uuid.New())
	settings.LateDeductionEnabled = true
	settings.LateDeductionAmount = dec("100")
	structure := &SalaryStructure{BasicSalary: dec("26000")}

	res := CalculateSalary(employee.Employee{}, structure, AttendanceSummary{LateDays: 3}, LeaveSummary{}, settings, nil)
	_, ok := deduction(res.Deductions, DeductionLate)
	assert.False(t, ok)

	settings.LateDeductionEnabled = false
	res = CalculateSalary(employee.Employee{}, structure, AttendanceSummary{LateDays: 10}, LeaveSummary{}, settings, nil)
	_, ok = deduction(res.Deductions, DeductionLate)
	assert.False(t, ok)
}

func TestCalculateSalary_NetFlooredAtZero(t *testing.T) {
	settings := DefaultSettings(uuid.New())
	structure := &SalaryStructure{BasicSalary: dec("2600")}
	advances := []Advance{{IsActive: true, RemainingAmount: dec("10000"), MonthlyDeduction: dec("5000")}}

	res := CalculateSalary(employee.Employee{}, structure, AttendanceSummary{AbsentDays: 20}, LeaveSummary{}, settings, advances)

	assert.True(t, res.TotalDeductions.GreaterThan(res.GrossSalary))
	assert.True(t, res.NetSalary.IsZero())
}

func TestCalculateSalary_ZeroWorkingDays(t *testing.T) {
	settings := DefaultSettings(uuid.New())
	settings.WorkingDaysPerMonth = 0
	structure := &SalaryStructure{BasicSalary: dec("26000")}

	res := CalculateSalary(employee.Employee{}, structure, AttendanceSummary{AbsentDays: 3, HalfDayCount: 1}, LeaveSummary{}, settings, nil)

	assert.True(t, res.DailyRate.IsZero())
	assert.Empty(t, res.Deductions)
	assert.True(t, res.NetSalary.Equal(dec("26000")))
}

func TestNetPayable(t *testing.T) {
	assert.True(t, NetPayable(dec("10000"), dec("500"), dec("1500"), dec("200")).Equal(dec("8800")))
	assert.True(t, NetPayable(dec("1000"), dec("0"), dec("900"), dec("500")).IsZero())
}

func TestBonus(t *testing.T) {
	empID := uuid.New()
	emp := employee.Employee{ID: empID, Department: "hifz"}

	fixed := Bonus{BonusType: BonusFixed, Amount: dec("1500"), ApplicableTo: ApplicableAll}
	assert.True(t, fixed.AppliesTo(emp))
	assert.True(t, BonusAmount(fixed, dec("20000")).Equal(dec("1500")))

	pct := Bonus{BonusType: BonusPercentage, Percentage: dec("10"), ApplicableTo: ApplicableDepartment, Department: "hifz"}
	assert.True(t, pct.AppliesTo(emp))
	assert.True(t, BonusAmount(pct, dec("20000")).Equal(dec("2000")))

	other := Bonus{ApplicableTo: ApplicableDepartment, Department: "kitab"}
	assert.False(t, other.AppliesTo(emp))

	individual := Bonus{ApplicableTo: ApplicableIndividual, EmployeeIDs: pq.StringArray{uuid.NewString(), empID.String()}}
	assert.True(t, individual.AppliesTo(emp))
	individual.EmployeeIDs = pq.StringArray{uuid.NewString()}
	assert.False(t, individual.AppliesTo(emp))
}
