package employee

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EmploymentFullTime = "full_time"
	EmploymentPartTime = "part_time"
	EmploymentContract = "contract"
)

// Employee is a staff member of a madrasah: teachers, accountants and
// support staff. Payroll pays active employees; leave and staff attendance
// reference them by id.
type Employee struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_employees_code,priority:1;uniqueIndex:uq_employees_email,priority:1;uniqueIndex:uq_employees_user,priority:1"`
	UserID         *uuid.UUID      `gorm:"type:uuid;uniqueIndex:uq_employees_user,priority:2"`
	EmployeeCode   string          `gorm:"type:varchar(30);not null;uniqueIndex:uq_employees_code,priority:2"`
	FullName       string          `gorm:"type:varchar(150);not null"`
	Email          *string         `gorm:"type:varchar(150);uniqueIndex:uq_employees_email,priority:2"`
	Phone          string          `gorm:"type:varchar(30)"`
	Department     string          `gorm:"type:varchar(80);index"`
	Designation    string          `gorm:"type:varchar(80)"`
	EmploymentType string          `gorm:"type:varchar(20);not null;default:'full_time'"`
	MonthlySalary  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	JoinedAt       time.Time       `gorm:"type:date;not null"`
	IsActive       bool            `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
