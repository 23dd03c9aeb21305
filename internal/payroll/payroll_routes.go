package payroll

import (
	"go-madrasah/internal/middleware"
	"go-madrasah/internal/rbac"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /payroll. processMiddleware runs in front of run
// processing after RBAC, typically idempotency.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, processMiddleware ...gin.HandlerFunc) {
	can := func(resource, action string) gin.HandlerFunc {
		return middleware.RBACAuthorize(rbacService, resource, action)
	}

	p := r.Group("/payroll")
	{
		p.GET("/settings", can(rbac.ResourcePayrollSetup, "read"), handler.GetSettings)
		p.PUT("/settings", can(rbac.ResourcePayrollSetup, "update"), handler.UpdateSettings)

		p.GET("/salary-structures", can(rbac.ResourcePayrollSetup, "read"), handler.ListStructures)
		p.POST("/salary-structures", can(rbac.ResourcePayrollSetup, "update"), handler.CreateStructure)
		p.PUT("/salary-structures/:id", can(rbac.ResourcePayrollSetup, "update"), handler.UpdateStructure)

		p.GET("/advances", can(rbac.ResourcePayrollSetup, "read"), handler.ListAdvances)
		p.POST("/advances", can(rbac.ResourcePayrollSetup, "update"), handler.CreateAdvance)
		p.POST("/advances/:id/deactivate", can(rbac.ResourcePayrollSetup, "update"), handler.DeactivateAdvance)

		p.GET("/bonuses", can(rbac.ResourcePayrollSetup, "read"), handler.ListBonuses)
		p.POST("/bonuses", can(rbac.ResourcePayrollSetup, "update"), handler.CreateBonus)
		p.DELETE("/bonuses/:id", can(rbac.ResourcePayrollSetup, "update"), handler.DeleteBonus)

		runs := p.Group("/runs")
		runs.GET("", can(rbac.ResourcePayroll, "read"), handler.GetAll)
		processChain := append([]gin.HandlerFunc{can(rbac.ResourcePayroll, "create")}, processMiddleware...)
		runs.POST("", append(processChain, handler.Process)...)
		runs.GET("/:id", can(rbac.ResourcePayroll, "read"), handler.GetByID)
		runs.GET("/:id/export", can(rbac.ResourcePayroll, "read"), handler.Export)
		runs.PUT("/:id/items/:itemId", can(rbac.ResourcePayroll, "update"), handler.UpdateItem)
		runs.GET("/:id/items/:itemId/payslip", can(rbac.ResourcePayroll, "read"), handler.GetPayslip)
		runs.POST("/:id/approve", can(rbac.ResourcePayroll, "approve"), handler.Approve)
		runs.POST("/:id/reject", can(rbac.ResourcePayroll, "approve"), handler.Reject)
		runs.POST("/:id/lock", can(rbac.ResourcePayroll, "lock"), handler.Lock)
		runs.POST("/:id/mark-paid", can(rbac.ResourcePayroll, "pay"), handler.MarkPaid)
		runs.DELETE("/:id", can(rbac.ResourcePayroll, "delete"), handler.Delete)
	}
}
