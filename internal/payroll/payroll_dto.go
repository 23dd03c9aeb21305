package payroll

type SettingsRequest struct {
	WorkingDaysPerMonth    int    `json:"working_days_per_month" binding:"required,min=1,max=31"`
	AbsentDeductionPerDay  string `json:"absent_deduction_per_day" binding:"omitempty,numeric"`
	HalfDayDeductionRate   string `json:"half_day_deduction_rate" binding:"omitempty,numeric"`
	LateDeductionEnabled   bool   `json:"late_deduction_enabled"`
	LateDaysThreshold      int    `json:"late_days_threshold" binding:"min=0,max=31"`
	LateDeductionAmount    string `json:"late_deduction_amount" binding:"omitempty,numeric"`
	OvertimeEnabled        bool   `json:"overtime_enabled"`
	OvertimeRatePerHour    string `json:"overtime_rate_per_hour" binding:"omitempty,numeric"`
	UnrecordedDaysAsAbsent *bool  `json:"unrecorded_days_as_absent"`
}

type SettingsResponse struct {
	WorkingDaysPerMonth    int    `json:"working_days_per_month"`
	AbsentDeductionPerDay  string `json:"absent_deduction_per_day"`
	HalfDayDeductionRate   string `json:"half_day_deduction_rate"`
	LateDeductionEnabled   bool   `json:"late_deduction_enabled"`
	LateDaysThreshold      int    `json:"late_days_threshold"`
	LateDeductionAmount    string `json:"late_deduction_amount"`
	OvertimeEnabled        bool   `json:"overtime_enabled"`
	OvertimeRatePerHour    string `json:"overtime_rate_per_hour"`
	UnrecordedDaysAsAbsent bool   `json:"unrecorded_days_as_absent"`
}

type StructureRequest struct {
	EmployeeID         string `json:"employee_id" binding:"required,uuid"`
	BasicSalary        string `json:"basic_salary" binding:"required,numeric"`
	HouseRentAllowance string `json:"house_rent_allowance" binding:"omitempty,numeric"`
	FoodAllowance      string `json:"food_allowance" binding:"omitempty,numeric"`
	TransportAllowance string `json:"transport_allowance" binding:"omitempty,numeric"`
	MedicalAllowance   string `json:"medical_allowance" binding:"omitempty,numeric"`
	OtherAllowance     string `json:"other_allowance" binding:"omitempty,numeric"`
	OtherAllowanceName string `json:"other_allowance_name" binding:"max=80"`
}

type StructureResponse struct {
	ID                 string `json:"id"`
	EmployeeID         string `json:"employee_id"`
	BasicSalary        string `json:"basic_salary"`
	HouseRentAllowance string `json:"house_rent_allowance"`
	FoodAllowance      string `json:"food_allowance"`
	TransportAllowance string `json:"transport_allowance"`
	MedicalAllowance   string `json:"medical_allowance"`
	OtherAllowance     string `json:"other_allowance"`
	OtherAllowanceName string `json:"other_allowance_name,omitempty"`
	GrossSalary        string `json:"gross_salary"`
	IsActive           bool   `json:"is_active"`
}

type AdvanceRequest struct {
	EmployeeID      string `json:"employee_id" binding:"required,uuid"`
	Amount          string `json:"amount" binding:"required,numeric"`
	Reason          string `json:"reason" binding:"max=500"`
	RepaymentMonths int    `json:"repayment_months" binding:"required,min=1,max=60"`
	StartYear       int    `json:"start_year" binding:"required,min=2000,max=2100"`
	StartMonth      int    `json:"start_month" binding:"required,min=1,max=12"`
}

type AdvanceResponse struct {
	ID               string `json:"id"`
	EmployeeID       string `json:"employee_id"`
	Amount           string `json:"amount"`
	MonthlyDeduction string `json:"monthly_deduction"`
	RemainingAmount  string `json:"remaining_amount"`
	RepaymentMonths  int    `json:"repayment_months"`
	Reason           string `json:"reason,omitempty"`
	StartYear        int    `json:"start_year"`
	StartMonth       int    `json:"start_month"`
	IsActive         bool   `json:"is_active"`
}

type BonusRequest struct {
	Name           string   `json:"name" binding:"required,max=120"`
	BonusType      string   `json:"bonus_type" binding:"required,oneof=fixed percentage"`
	Amount         string   `json:"amount" binding:"omitempty,numeric"`
	Percentage     string   `json:"percentage" binding:"omitempty,numeric"`
	ApplicableTo   string   `json:"applicable_to" binding:"required,oneof=all department individual"`
	Department     string   `json:"department" binding:"max=80"`
	EmployeeIDs    []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
	EffectiveYear  int      `json:"effective_year" binding:"required,min=2000,max=2100"`
	EffectiveMonth int      `json:"effective_month" binding:"required,min=1,max=12"`
	Description    string   `json:"description" binding:"max=500"`
}

type BonusResponse struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	BonusType      string   `json:"bonus_type"`
	Amount         string   `json:"amount"`
	Percentage     string   `json:"percentage"`
	ApplicableTo   string   `json:"applicable_to"`
	Department     string   `json:"department,omitempty"`
	EmployeeIDs    []string `json:"employee_ids,omitempty"`
	EffectiveYear  int      `json:"effective_year"`
	EffectiveMonth int      `json:"effective_month"`
	Description    string   `json:"description,omitempty"`
}

type ListBonusFilter struct {
	Year  int `form:"year" binding:"omitempty,min=2000,max=2100"`
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
}

type ProcessRunRequest struct {
	Year        int      `json:"year" binding:"required,min=2000,max=2100"`
	Month       int      `json:"month" binding:"required,min=1,max=12"`
	Department  string   `json:"department" binding:"max=80"`
	EmployeeIDs []string `json:"employee_ids" binding:"omitempty,dive,uuid"`
	Remarks     string   `json:"remarks" binding:"max=1000"`
}

type ListRunFilter struct {
	Year       int    `form:"year" binding:"omitempty,min=2000,max=2100"`
	Month      int    `form:"month" binding:"omitempty,min=1,max=12"`
	Status     string `form:"status"`
	Department string `form:"department"`
}

type UpdateItemRequest struct {
	BonusAmount          *string `json:"bonus_amount" binding:"omitempty,numeric"`
	BonusNote            *string `json:"bonus_note" binding:"omitempty,max=200"`
	ExtraDeduction       *string `json:"extra_deduction" binding:"omitempty,numeric"`
	ExtraDeductionReason *string `json:"extra_deduction_reason" binding:"omitempty,max=200"`
	Remarks              *string `json:"remarks" binding:"omitempty,max=1000"`
}

type RejectRunRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

type MarkPaidRequest struct {
	PaymentMethod    string `json:"payment_method" binding:"required,oneof=bank bkash nagad rocket cash cheque"`
	PaymentReference string `json:"payment_reference" binding:"max=120"`
}

type LineItemResponse struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

type ItemResponse struct {
	ID                   string             `json:"id"`
	EmployeeID           string             `json:"employee_id"`
	EmployeeCode         string             `json:"employee_code"`
	EmployeeName         string             `json:"employee_name"`
	Department           string             `json:"department,omitempty"`
	GrossSalary          string             `json:"gross_salary"`
	DailyRate            string             `json:"daily_rate"`
	Earnings             []LineItemResponse `json:"earnings"`
	Deductions           []LineItemResponse `json:"deductions"`
	TotalDeductions      string             `json:"total_deductions"`
	NetSalary            string             `json:"net_salary"`
	BonusAmount          string             `json:"bonus_amount"`
	BonusNote            string             `json:"bonus_note,omitempty"`
	ExtraDeduction       string             `json:"extra_deduction"`
	ExtraDeductionReason string             `json:"extra_deduction_reason,omitempty"`
	NetPayable           string             `json:"net_payable"`
	AttendanceSummary    AttendanceSummary  `json:"attendance_summary"`
	LeaveSummary         LeaveSummary       `json:"leave_summary"`
	Remarks              string             `json:"remarks,omitempty"`
}

type RunResponse struct {
	ID               string         `json:"id"`
	RunNumber        string         `json:"run_number"`
	Year             int            `json:"year"`
	Month            int            `json:"month"`
	Department       string         `json:"department,omitempty"`
	Status           string         `json:"status"`
	EmployeeCount    int            `json:"employee_count"`
	TotalGross       string         `json:"total_gross"`
	TotalBonus       string         `json:"total_bonus"`
	TotalDeductions  string         `json:"total_deductions"`
	TotalNetPayable  string         `json:"total_net_payable"`
	Remarks          string         `json:"remarks,omitempty"`
	CreatedBy        string         `json:"created_by"`
	ReviewedBy       *string        `json:"reviewed_by,omitempty"`
	ReviewedAt       *string        `json:"reviewed_at,omitempty"`
	RejectionReason  string         `json:"rejection_reason,omitempty"`
	LockedAt         *string        `json:"locked_at,omitempty"`
	PaidAt           *string        `json:"paid_at,omitempty"`
	PaymentMethod    string         `json:"payment_method,omitempty"`
	PaymentReference string         `json:"payment_reference,omitempty"`
	Items            []ItemResponse `json:"items,omitempty"`
}

// PayslipResponse is one item rendered with its run's period for printing.
type PayslipResponse struct {
	RunNumber string       `json:"run_number"`
	Year      int          `json:"year"`
	Month     int          `json:"month"`
	MonthName string       `json:"month_name"`
	Status    string       `json:"status"`
	Item      ItemResponse `json:"item"`
}
