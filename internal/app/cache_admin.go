package app

import (
	"net/http"

	"go-madrasah/internal/middleware"
	"go-madrasah/internal/rbac"
	"go-madrasah/internal/shared/apperror"
	"go-madrasah/internal/shared/cache"
	"go-madrasah/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type statsReporter interface {
	Stats() cache.Stats
}

type cacheStatsResponse struct {
	Backend string       `json:"backend"`
	Stats   *cache.Stats `json:"stats,omitempty"`
}

// registerCacheRoutes exposes cache maintenance to platform admins. Stats are
// only known for the in-process backend.
func registerCacheRoutes(r *gin.RouterGroup, c cache.Cache) {
	admin := r.Group("/admin/cache", middleware.RoleMiddleware(rbac.RoleSuperAdmin, rbac.RoleAdmin))

	admin.GET("", func(ctx *gin.Context) {
		resp := cacheStatsResponse{Backend: "redis"}
		if sr, ok := c.(statsReporter); ok {
			st := sr.Stats()
			resp.Backend = "memory"
			resp.Stats = &st
		}
		response.Success(ctx, http.StatusOK, resp, nil)
	})

	admin.DELETE("", func(ctx *gin.Context) {
		if err := c.Clear(ctx.Request.Context()); err != nil {
			zap.L().Named("cache.admin").Error("clear cache failed", zap.Error(err))
			httpErr := apperror.ToHTTP(err)
			response.Error(ctx, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			return
		}
		response.Success(ctx, http.StatusOK, gin.H{"cleared": true}, nil)
	})
}
