package attendance

import (
	"go-madrasah/internal/middleware"
	"go-madrasah/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /attendance. syncMiddleware runs in front of the
// device sync endpoint, after RBAC (idempotency and rate limiting).
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, syncMiddleware ...gin.HandlerFunc) {
	can := func(resource, action string) gin.HandlerFunc {
		return middleware.RBACAuthorize(rbacService, resource, action)
	}

	att := r.Group("/attendance")
	{
		att.GET("", can(rbac.ResourceAttendance, "read"), handler.GetAll)
		att.POST("/manual", can(rbac.ResourceAttendance, "create"), handler.MarkManual)
		att.POST("/bulk", can(rbac.ResourceAttendance, "create"), handler.MarkBulk)
		att.POST("/check-in", can(rbac.ResourceAttendance, "create"), handler.CheckIn)
		att.POST("/check-out", can(rbac.ResourceAttendance, "update"), handler.CheckOut)
		att.POST("/preview", can(rbac.ResourceAttendanceRule, "read"), handler.Preview)

		syncChain := append([]gin.HandlerFunc{can(rbac.ResourceAttendance, "sync")}, syncMiddleware...)
		att.POST("/offline-sync", append(syncChain, handler.SyncOffline)...)

		att.GET("/edit-requests", can(rbac.ResourceAttendance, "approve"), handler.ListEditRequests)
		att.POST("/edit-requests/:id/approve", can(rbac.ResourceAttendance, "approve"), handler.ApproveEditRequest)
		att.POST("/edit-requests/:id/reject", can(rbac.ResourceAttendance, "approve"), handler.RejectEditRequest)
		att.GET("/audit-logs", can(rbac.ResourceAttendance, "audit"), handler.ListAuditLogs)

		reports := att.Group("/reports")
		reports.GET("/daily", can(rbac.ResourceReport, "read"), handler.DailyReport)
		reports.GET("/monthly", can(rbac.ResourceReport, "read"), handler.MonthlyReport)
		reports.GET("/monthly/export", can(rbac.ResourceReport, "read"), handler.ExportMonthlyReport)
		reports.GET("/class-wise", can(rbac.ResourceReport, "read"), handler.ClassWiseReport)
		reports.GET("/risk", can(rbac.ResourceReport, "read"), handler.RiskInsights)

		att.GET("/:id", can(rbac.ResourceAttendance, "read"), handler.GetByID)
		att.PUT("/:id", can(rbac.ResourceAttendance, "update"), handler.Edit)
	}
}
