package employee

import "strings"

type CreateEmployeeRequest struct {
	UserID         string `json:"user_id" binding:"omitempty,uuid"`
	EmployeeCode   string `json:"employee_code" binding:"omitempty,max=30"`
	FullName       string `json:"full_name" binding:"required,max=150"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone" binding:"omitempty,max=30"`
	Department     string `json:"department" binding:"omitempty,max=80"`
	Designation    string `json:"designation" binding:"omitempty,max=80"`
	EmploymentType string `json:"employment_type" binding:"omitempty,oneof=full_time part_time contract"`
	MonthlySalary  string `json:"monthly_salary" binding:"omitempty,numeric"`
	JoinedAt       string `json:"joined_at" binding:"required"`
}

type UpdateEmployeeRequest struct {
	UserID         string `json:"user_id" binding:"omitempty,uuid"`
	EmployeeCode   string `json:"employee_code" binding:"required,max=30"`
	FullName       string `json:"full_name" binding:"required,max=150"`
	Email          string `json:"email" binding:"omitempty,email"`
	Phone          string `json:"phone" binding:"omitempty,max=30"`
	Department     string `json:"department" binding:"omitempty,max=80"`
	Designation    string `json:"designation" binding:"omitempty,max=80"`
	EmploymentType string `json:"employment_type" binding:"required,oneof=full_time part_time contract"`
	MonthlySalary  string `json:"monthly_salary" binding:"omitempty,numeric"`
	JoinedAt       string `json:"joined_at" binding:"required"`
	IsActive       *bool  `json:"is_active" binding:"required"`
}

type ListEmployeeQuery struct {
	Department string `form:"department" binding:"omitempty,max=80"`
	ActiveOnly bool   `form:"active_only"`
	Q          string `form:"q" binding:"omitempty,max=100"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=name code joined_at"`
	SortDir    string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

func (q ListEmployeeQuery) Filter() ListFilter {
	return ListFilter{
		Department: strings.TrimSpace(q.Department),
		ActiveOnly: q.ActiveOnly,
		Search:     q.Q,
		SortBy:     q.SortBy,
		SortDesc:   q.SortDir == "desc",
	}
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	TenantID       string  `json:"tenant_id"`
	UserID         *string `json:"user_id,omitempty"`
	EmployeeCode   string  `json:"employee_code"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	Department     string  `json:"department,omitempty"`
	Designation    string  `json:"designation,omitempty"`
	EmploymentType string  `json:"employment_type"`
	MonthlySalary  string  `json:"monthly_salary"`
	JoinedAt       string  `json:"joined_at"`
	IsActive       bool    `json:"is_active"`
}

// EmployeeOption is the slim shape used by pickers in the leave and payroll
// forms.
type EmployeeOption struct {
	ID           string `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FullName     string `json:"full_name"`
	Department   string `json:"department,omitempty"`
}
