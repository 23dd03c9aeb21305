package employee

import (
	"go-madrasah/internal/middleware"
	"go-madrasah/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	employees := r.Group("/employees")
	{
		employees.GET("",
			middleware.RateLimitByTenantUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, "read"),
			handler.GetAll,
		)

		employees.GET("/options",
			middleware.RateLimitByTenantUser(5, 20),
			middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, "read"),
			handler.GetOptions,
		)

		employees.GET("/:id",
			middleware.RateLimitByTenantUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, "read"),
			handler.GetByID,
		)

		employees.POST("",
			middleware.RateLimitByTenantUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, "create"),
			handler.Create,
		)

		employees.PUT("/:id",
			middleware.RateLimitByTenantUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, "update"),
			handler.Update,
		)

		employees.DELETE("/:id",
			middleware.RateLimitByTenantUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourceEmployee, "delete"),
			handler.Delete,
		)
	}
}
