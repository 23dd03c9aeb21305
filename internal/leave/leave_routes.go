package leave

import (
	"go-madrasah/internal/middleware"
	"go-madrasah/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	can := func(action string) gin.HandlerFunc {
		return middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, action)
	}

	leaves := r.Group("/leaves")
	{
		leaves.GET("", can("read"), handler.GetAll)
		leaves.GET("/summary", can("read"), handler.Summary)
		leaves.GET("/:id", can("read"), handler.GetByID)
		leaves.POST("", can("create"), handler.Create)
		leaves.PUT("/:id", can("create"), handler.Update)
		leaves.POST("/:id/approve", can("approve"), handler.Approve)
		leaves.POST("/:id/reject", can("approve"), handler.Reject)
		leaves.POST("/:id/cancel", can("create"), handler.Cancel)
		leaves.DELETE("/:id", can("delete"), handler.Delete)
	}
}
