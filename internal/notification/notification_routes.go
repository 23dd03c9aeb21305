package notification

import (
	"go-madrasah/internal/middleware"
	"go-madrasah/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	n := r.Group("/notifications")
	{
		n.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceNotification, "read"), handler.List)
		n.PATCH("/:id/read", middleware.RBACAuthorize(rbacService, rbac.ResourceNotification, "read"), handler.MarkRead)
		n.GET("/settings", middleware.RBACAuthorize(rbacService, rbac.ResourceNotification, "read"), handler.GetSettings)
		n.PUT("/settings", middleware.RBACAuthorize(rbacService, rbac.ResourceNotification, "update"), handler.UpdateSettings)
	}
}
