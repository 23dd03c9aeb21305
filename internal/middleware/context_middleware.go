package middleware

import (
	"go-madrasah/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger attaches request id and a scoped logger. Run it before auth;
// AuthenticatedLogger enriches the logger once tenant and user are known.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Set("request_id", rid)
		c.Header("X-Request-ID", rid)

		reqLogger := logger.With(zap.String("request_id", rid))

		ctx := contextutil.WithRequestID(c.Request.Context(), rid)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func AuthenticatedLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		md := contextutil.ExtractMetadata(ctx)
		md.RequestID = ""
		l := contextutil.GetLogger(ctx, zap.L()).With(md.Fields()...)
		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, l))
		c.Next()
	}
}
