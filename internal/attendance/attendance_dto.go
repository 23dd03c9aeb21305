package attendance

// Actor is the authenticated caller as resolved by the auth middleware.
type Actor struct {
	UserID string
	Role   string
}

type ManualRecordRequest struct {
	PersonID   string  `json:"person_id" binding:"required,uuid"`
	PersonType string  `json:"person_type" binding:"omitempty,oneof=student staff"`
	PersonName string  `json:"person_name" binding:"omitempty,max=150"`
	Date       string  `json:"date" binding:"required"`
	Status     string  `json:"status" binding:"omitempty,oneof=present absent late half_day holiday"`
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	ClassID    *string `json:"class_id" binding:"omitempty,uuid"`
	Shift      *string `json:"shift" binding:"omitempty,max=30"`
	Remarks    *string `json:"remarks"`
}

type BulkRecordItem struct {
	PersonID   string  `json:"person_id" binding:"required,uuid"`
	PersonName string  `json:"person_name" binding:"omitempty,max=150"`
	Status     string  `json:"status" binding:"omitempty,oneof=present absent late half_day holiday"`
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	Remarks    *string `json:"remarks"`
}

type BulkAttendanceRequest struct {
	Date       string           `json:"date" binding:"required"`
	PersonType string           `json:"person_type" binding:"omitempty,oneof=student staff"`
	ClassID    *string          `json:"class_id" binding:"omitempty,uuid"`
	Shift      *string          `json:"shift" binding:"omitempty,max=30"`
	Records    []BulkRecordItem `json:"records" binding:"required,min=1,dive"`
}

type SkippedRecord struct {
	PersonID string `json:"person_id"`
	Reason   string `json:"reason"`
}

type BulkResult struct {
	Saved   int             `json:"saved"`
	Skipped []SkippedRecord `json:"skipped"`
}

type EditAttendanceRequest struct {
	NewStatus  string `json:"new_status" binding:"required,oneof=present absent late half_day holiday"`
	EditReason string `json:"edit_reason" binding:"required,min=3"`
}

type EditResult struct {
	RequiresApproval bool                 `json:"requires_approval"`
	Record           *AttendanceResponse  `json:"record,omitempty"`
	EditRequest      *EditRequestResponse `json:"edit_request,omitempty"`
}

type RejectEditRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CheckInRequest struct {
	ClassID *string `json:"class_id" binding:"omitempty,uuid"`
	Shift   *string `json:"shift" binding:"omitempty,max=30"`
	Remarks *string `json:"remarks"`
}

type CheckOutRequest struct {
	Remarks *string `json:"remarks"`
}

type ListAttendanceFilter struct {
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	PersonType string `form:"person_type" binding:"omitempty,oneof=student staff"`
	PersonID   string `form:"person_id" binding:"omitempty,uuid"`
	ClassID    string `form:"class_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=present absent late half_day holiday"`
	Page       int    `form:"-"`
	PageSize   int    `form:"-"`
}

type ListEditRequestsFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

type AuditLogFilter struct {
	PersonID string `form:"person_id" binding:"omitempty,uuid"`
	Action   string `form:"action"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

type PreviewRequest struct {
	Date     string  `json:"date" binding:"required"`
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
	ClassID  *string `json:"class_id" binding:"omitempty,uuid"`
	Shift    *string `json:"shift"`
}

type PreviewResponse struct {
	RuleID       string `json:"rule_id,omitempty"`
	RuleType     string `json:"rule_type"`
	IsDefault    bool   `json:"is_default"`
	LateCutoff   string `json:"late_cutoff"`
	AbsentCutoff string `json:"absent_cutoff"`
	Classification
}

// SyncRecord is one punch reported by a biometric device.
type SyncRecord struct {
	PersonID   string  `json:"person_id"`
	PersonType string  `json:"person_type"`
	PersonName string  `json:"person_name"`
	Date       string  `json:"date"`
	CheckIn    *string `json:"check_in"`
	CheckOut   *string `json:"check_out"`
	ClassID    *string `json:"class_id"`
	Shift      *string `json:"shift"`
}

type SyncBatch struct {
	DeviceID string       `json:"device_id" binding:"required,max=100"`
	Records  []SyncRecord `json:"records" binding:"required,min=1"`
}

type SyncResult struct {
	SyncLogID         string `json:"sync_log_id"`
	Synced            int    `json:"synced"`
	Duplicates        int    `json:"duplicates"`
	ConflictsResolved int    `json:"conflicts_resolved"`
	Failed            int    `json:"failed"`
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	TenantID       string  `json:"tenant_id"`
	PersonID       string  `json:"person_id"`
	PersonType     string  `json:"person_type"`
	PersonName     string  `json:"person_name,omitempty"`
	ClassID        *string `json:"class_id,omitempty"`
	Shift          *string `json:"shift,omitempty"`
	AttendanceDate string  `json:"date"`
	CheckIn        *string `json:"check_in,omitempty"`
	CheckOut       *string `json:"check_out,omitempty"`
	Status         string  `json:"status"`
	StatusReason   string  `json:"status_reason,omitempty"`
	Source         string  `json:"source"`
	DeviceID       *string `json:"device_id,omitempty"`
	RecordedBy     *string `json:"recorded_by,omitempty"`
	Remarks        *string `json:"remarks,omitempty"`
	EditReason     *string `json:"edit_reason,omitempty"`
}

type EditRequestResponse struct {
	ID              string  `json:"id"`
	RecordID        string  `json:"record_id"`
	OriginalStatus  string  `json:"original_status"`
	NewStatus       string  `json:"new_status"`
	EditReason      string  `json:"edit_reason"`
	Status          string  `json:"status"`
	RequestedBy     string  `json:"requested_by"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

type AuditLogResponse struct {
	ID        string  `json:"id"`
	Action    string  `json:"action"`
	RecordID  *string `json:"record_id,omitempty"`
	PersonID  *string `json:"person_id,omitempty"`
	Date      *string `json:"date,omitempty"`
	OldStatus *string `json:"old_status,omitempty"`
	NewStatus *string `json:"new_status,omitempty"`
	Reason    *string `json:"reason,omitempty"`
	UserID    *string `json:"user_id,omitempty"`
	UserRole  string  `json:"user_role,omitempty"`
	CreatedAt string  `json:"created_at"`
}
