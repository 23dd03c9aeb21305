package leave

type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=sick casual annual maternity paternity unpaid leave_without_pay lwp other"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason" binding:"max=1000"`
}

type UpdateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=sick casual annual maternity paternity unpaid leave_without_pay lwp other"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"max=1000"`
}

type RejectLeaveRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

type ListLeaveFilter struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending approved rejected cancelled"`
	From       string `form:"from"`
	To         string `form:"to"`
}

type LeaveSummaryQuery struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
	Year       int    `form:"year" binding:"required,min=2000,max=2100"`
}

type LeaveSummaryResponse struct {
	EmployeeID  string         `json:"employee_id"`
	Year        int            `json:"year"`
	DaysByType  map[string]int `json:"days_by_type"`
	PaidDays    int            `json:"paid_days"`
	UnpaidDays  int            `json:"unpaid_days"`
	PendingDays int            `json:"pending_days"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	TenantID        string  `json:"tenant_id"`
	EmployeeID      string  `json:"employee_id"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	CreatedBy       string  `json:"created_by"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CancelledAt     *string `json:"cancelled_at,omitempty"`
}
