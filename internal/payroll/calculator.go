package payroll

import (
	"slices"

	"go-madrasah/internal/employee"

	"github.com/shopspring/decimal"
)

const (
	EarningBasic     = "basic_salary"
	EarningHouseRent = "house_rent_allowance"
	EarningFood      = "food_allowance"
	EarningTransport = "transport_allowance"
	EarningMedical   = "medical_allowance"
	EarningOther     = "other_allowance"

	DeductionAbsent  = "absent_deduction"
	DeductionHalfDay = "half_day_deduction"
	DeductionLate    = "late_penalty"
	DeductionAdvance = "advance_deduction"
)

// AttendanceSummary is the month of staff attendance the calculator consumes.
type AttendanceSummary struct {
	TotalWorkingDays int `json:"total_working_days"`
	PresentDays      int `json:"present_days"`
	AbsentDays       int `json:"absent_days"`
	LateDays         int `json:"late_days"`
	HalfDayCount     int `json:"half_day_count"`
	Holidays         int `json:"holidays"`
	UnrecordedDays   int `json:"unrecorded_days"`
}

type LeaveSummary struct {
	PaidLeaveDays   int `json:"paid_leave_days"`
	UnpaidLeaveDays int `json:"unpaid_leave_days"`
}

type SalaryResult struct {
	GrossSalary      decimal.Decimal
	DailyRate        decimal.Decimal
	Earnings         []LineItem
	Deductions       []LineItem
	TotalDeductions  decimal.Decimal
	NetSalary        decimal.Decimal
	AdvanceDeduction decimal.Decimal
	UsedStructure    bool
}

// CalculateSalary derives gross and net pay for one employee and month.
// Without a structure the employee's flat monthly salary is the basic
// component. Amounts are kept unrounded until Round2 is applied by the
// caller on output.
func CalculateSalary(
	emp employee.Employee,
	structure *SalaryStructure,
	att AttendanceSummary,
	lv LeaveSummary,
	settings Settings,
	advances []Advance,
) SalaryResult {
	s := SalaryStructure{BasicSalary: emp.MonthlySalary}
	if structure != nil {
		s = *structure
	}

	earnings := []LineItem{
		{Name: EarningBasic, Amount: s.BasicSalary},
		{Name: EarningHouseRent, Amount: s.HouseRentAllowance},
		{Name: EarningFood, Amount: s.FoodAllowance},
		{Name: EarningTransport, Amount: s.TransportAllowance},
		{Name: EarningMedical, Amount: s.MedicalAllowance},
		{Name: EarningOther, Amount: s.OtherAllowance},
	}
	gross := sumItems(earnings)

	dailyRate := decimal.Zero
	if settings.WorkingDaysPerMonth > 0 {
		dailyRate = gross.Div(decimal.NewFromInt(int64(settings.WorkingDaysPerMonth)))
	}

	var deductions []LineItem

	absentDays := att.AbsentDays + lv.UnpaidLeaveDays
	if absentDays > 0 {
		perDay := settings.AbsentDeductionPerDay
		if perDay.IsZero() {
			perDay = dailyRate
		}
		deductions = appendNonZero(deductions, DeductionAbsent, perDay.Mul(decimal.NewFromInt(int64(absentDays))))
	}

	if att.HalfDayCount > 0 {
		amount := dailyRate.
			Mul(decimal.NewFromInt(int64(att.HalfDayCount))).
			Mul(settings.HalfDayDeductionRate)
		deductions = appendNonZero(deductions, DeductionHalfDay, amount)
	}

	if settings.LateDeductionEnabled && att.LateDays > settings.LateDaysThreshold {
		excess := att.LateDays - settings.LateDaysThreshold
		deductions = appendNonZero(deductions, DeductionLate, settings.LateDeductionAmount.Mul(decimal.NewFromInt(int64(excess))))
	}

	advanceTotal := decimal.Zero
	for _, a := range advances {
		if !a.IsActive || !a.RemainingAmount.IsPositive() {
			continue
		}
		advanceTotal = advanceTotal.Add(a.MonthlyDeduction)
	}
	deductions = appendNonZero(deductions, DeductionAdvance, advanceTotal)

	total := sumItems(deductions)

	return SalaryResult{
		GrossSalary:      gross,
		DailyRate:        dailyRate,
		Earnings:         earnings,
		Deductions:       deductions,
		TotalDeductions:  total,
		NetSalary:        floorZero(gross.Sub(total)),
		AdvanceDeduction: advanceTotal,
		UsedStructure:    structure != nil,
	}
}

// NetPayable is the amount actually paid once bonus and manual
// adjustments are applied on top of the calculator's output.
func NetPayable(gross, bonus, totalDeductions, extraDeduction decimal.Decimal) decimal.Decimal {
	return floorZero(gross.Add(bonus).Sub(totalDeductions).Sub(extraDeduction))
}

// BonusAmount evaluates a bonus against the employee's basic salary.
func BonusAmount(b Bonus, basic decimal.Decimal) decimal.Decimal {
	if b.BonusType == BonusPercentage {
		return basic.Mul(b.Percentage).Div(decimal.NewFromInt(100))
	}
	return b.Amount
}

func (b Bonus) AppliesTo(emp employee.Employee) bool {
	switch b.ApplicableTo {
	case ApplicableDepartment:
		return b.Department != "" && b.Department == emp.Department
	case ApplicableIndividual:
		return slices.Contains(b.EmployeeIDs, emp.ID.String())
	default:
		return true
	}
}

func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func roundItems(items []LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, LineItem{Name: it.Name, Amount: Round2(it.Amount)})
	}
	return out
}

func appendNonZero(items []LineItem, name string, amount decimal.Decimal) []LineItem {
	if amount.IsZero() {
		return items
	}
	return append(items, LineItem{Name: name, Amount: amount})
}

func sumItems(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
