package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusDraft    = "DRAFT"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusLocked   = "LOCKED"
	StatusPaid     = "PAID"
)

const (
	BonusFixed      = "fixed"
	BonusPercentage = "percentage"

	ApplicableAll        = "all"
	ApplicableDepartment = "department"
	ApplicableIndividual = "individual"
)

// Settings is the per-tenant payroll policy. A tenant without a row gets
// DefaultSettings. Columns carry no gorm default: gorm would swap a zero or
// false value for it on insert.
type Settings struct {
	TenantID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	WorkingDaysPerMonth    int             `gorm:"not null"`
	AbsentDeductionPerDay  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	HalfDayDeductionRate   decimal.Decimal `gorm:"type:numeric(5,4);not null"`
	LateDeductionEnabled   bool            `gorm:"not null"`
	LateDaysThreshold      int             `gorm:"not null"`
	LateDeductionAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	OvertimeEnabled        bool            `gorm:"not null"`
	OvertimeRatePerHour    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	UnrecordedDaysAsAbsent bool            `gorm:"not null"`
	UpdatedAt              time.Time
}

func (Settings) TableName() string { return "payroll_settings" }

func DefaultSettings(tenantID uuid.UUID) Settings {
	return Settings{
		TenantID:               tenantID,
		WorkingDaysPerMonth:    26,
		AbsentDeductionPerDay:  decimal.Zero,
		HalfDayDeductionRate:   decimal.NewFromFloat(0.5),
		LateDaysThreshold:      3,
		LateDeductionAmount:    decimal.Zero,
		OvertimeRatePerHour:    decimal.Zero,
		UnrecordedDaysAsAbsent: true,
	}
}

// SalaryStructure holds the earning components of one employee. Only one
// structure per employee is active at a time.
type SalaryStructure struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_salary_structures_tenant_employee"`
	EmployeeID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_salary_structures_tenant_employee;uniqueIndex:uq_salary_structures_active,where:is_active"`
	BasicSalary        decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	HouseRentAllowance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	FoodAllowance      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	TransportAllowance decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	MedicalAllowance   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	OtherAllowance     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	OtherAllowanceName string          `gorm:"type:varchar(80)"`
	IsActive           bool            `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Advance is a salary advance repaid through monthly payroll deductions.
type Advance struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_employee_advances_tenant_employee"`
	EmployeeID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_employee_advances_tenant_employee"`
	Amount           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	MonthlyDeduction decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	RemainingAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	RepaymentMonths  int             `gorm:"not null;default:1"`
	Reason           string          `gorm:"type:text"`
	StartYear        int             `gorm:"not null"`
	StartMonth       int             `gorm:"not null"`
	IsActive         bool            `gorm:"not null;default:true"`
	CreatedBy        uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Advance) TableName() string { return "employee_advances" }

type Bonus struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_payroll_bonuses_period"`
	Name           string          `gorm:"type:varchar(120);not null"`
	BonusType      string          `gorm:"type:varchar(20);not null;default:'fixed'"`
	Amount         decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	Percentage     decimal.Decimal `gorm:"type:numeric(7,4);not null;default:0"`
	ApplicableTo   string          `gorm:"type:varchar(20);not null;default:'all'"`
	Department     string          `gorm:"type:varchar(80)"`
	EmployeeIDs    pq.StringArray  `gorm:"type:text[]"`
	EffectiveYear  int             `gorm:"not null;index:idx_payroll_bonuses_period"`
	EffectiveMonth int             `gorm:"not null;index:idx_payroll_bonuses_period"`
	Description    string          `gorm:"type:text"`
	CreatedBy      uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (Bonus) TableName() string { return "payroll_bonuses" }

// Run is one month of payroll for a tenant, optionally narrowed to a
// department. Items are immutable once the run is LOCKED.
type Run struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_payroll_runs_tenant_period"`
	RunNumber        string          `gorm:"type:varchar(30);not null"`
	Year             int             `gorm:"not null;index:idx_payroll_runs_tenant_period"`
	Month            int             `gorm:"not null;index:idx_payroll_runs_tenant_period"`
	Department       string          `gorm:"type:varchar(80)"`
	Status           string          `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	EmployeeCount    int             `gorm:"not null;default:0"`
	TotalGross       decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`
	TotalBonus       decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`
	TotalDeductions  decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`
	TotalNetPayable  decimal.Decimal `gorm:"type:numeric(16,2);not null;default:0"`
	Remarks          string          `gorm:"type:text"`
	CreatedBy        uuid.UUID       `gorm:"type:uuid;not null"`
	ReviewedBy       *uuid.UUID      `gorm:"type:uuid"`
	ReviewedAt       *time.Time
	RejectionReason  string     `gorm:"type:text"`
	LockedBy         *uuid.UUID `gorm:"type:uuid"`
	LockedAt         *time.Time
	PaidAt           *time.Time
	PaymentMethod    string `gorm:"type:varchar(30)"`
	PaymentReference string `gorm:"type:varchar(120)"`
	AdvancesApplied  bool   `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        gorm.DeletedAt `gorm:"index"`

	Items []Item `gorm:"foreignKey:RunID"`
}

func (Run) TableName() string { return "payroll_runs" }

// LineItem is one named amount of an earnings or deductions breakdown.
type LineItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type Item struct {
	ID                   uuid.UUID                             `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RunID                uuid.UUID                             `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_items_run_employee"`
	TenantID             uuid.UUID                             `gorm:"type:uuid;not null;index"`
	EmployeeID           uuid.UUID                             `gorm:"type:uuid;not null;uniqueIndex:uq_payroll_items_run_employee"`
	EmployeeCode         string                                `gorm:"type:varchar(30)"`
	EmployeeName         string                                `gorm:"type:varchar(150)"`
	Department           string                                `gorm:"type:varchar(80)"`
	GrossSalary          decimal.Decimal                       `gorm:"type:numeric(14,2);not null;default:0"`
	DailyRate            decimal.Decimal                       `gorm:"type:numeric(14,2);not null;default:0"`
	Earnings             datatypes.JSONType[[]LineItem]        `gorm:"type:jsonb"`
	Deductions           datatypes.JSONType[[]LineItem]        `gorm:"type:jsonb"`
	TotalDeductions      decimal.Decimal                       `gorm:"type:numeric(14,2);not null;default:0"`
	NetSalary            decimal.Decimal                       `gorm:"type:numeric(14,2);not null;default:0"`
	BonusAmount          decimal.Decimal                       `gorm:"type:numeric(14,2);not null;default:0"`
	BonusNote            string                                `gorm:"type:varchar(200)"`
	ExtraDeduction       decimal.Decimal                       `gorm:"type:numeric(14,2);not null;default:0"`
	ExtraDeductionReason string                                `gorm:"type:varchar(200)"`
	NetPayable           decimal.Decimal                       `gorm:"type:numeric(14,2);not null;default:0"`
	AdvanceDeduction     decimal.Decimal                       `gorm:"type:numeric(14,2);not null;default:0"`
	AttendanceSummary    datatypes.JSONType[AttendanceSummary] `gorm:"type:jsonb"`
	LeaveSummary         datatypes.JSONType[LeaveSummary]      `gorm:"type:jsonb"`
	UsedStructure        bool                                  `gorm:"not null;default:false"`
	Remarks              string                                `gorm:"type:text"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (Item) TableName() string { return "payroll_items" }
