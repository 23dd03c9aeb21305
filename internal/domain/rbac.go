package domain

// EnforceRequest is what route middleware and services ask the RBAC service.
type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	TenantID string `json:"tenant_id" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}
