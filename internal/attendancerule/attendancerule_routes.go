package attendancerule

import (
	"go-madrasah/internal/middleware"
	"go-madrasah/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	rules := r.Group("/attendance-rules")
	{
		rules.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendanceRule, "read"), handler.GetAll)
		rules.GET("/effective", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendanceRule, "read"), handler.Effective)
		rules.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendanceRule, "read"), handler.GetByID)
		rules.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendanceRule, "create"), handler.Create)
		rules.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendanceRule, "update"), handler.Update)
		rules.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendanceRule, "delete"), handler.Delete)
	}
}
