package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"quilkalam-api/pkg/logger"
)

// Trace OpenTelemetry 追踪中间件，skipPaths 中的探活与指标路径不产生 span
func Trace(serviceName string, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}
	return otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		_, ignored := skip[r.URL.Path]
		return !ignored
	}))
}

// TraceContext 回填 trace_id，并在请求结束后给 span 标注调用方与作品
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		sc := span.SpanContext()
		if !sc.IsValid() {
			c.Next()
			return
		}

		traceID := sc.TraceID().String()
		c.Set("trace_id", traceID)
		c.Header("X-Trace-ID", traceID)

		ctx := logger.WithContext(c.Request.Context(), logger.TraceIDKey, traceID)
		ctx = logger.WithContext(ctx, logger.SpanIDKey, sc.SpanID().String())
		if pid := c.Param("pid"); pid != "" {
			ctx = logger.WithContext(ctx, logger.ProjectIDKey, pid)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if pid := c.Param("pid"); pid != "" {
			span.SetAttributes(attribute.String("quilkalam.project_id", pid))
		}
		if uid := c.GetString("user_id"); uid != "" {
			span.SetAttributes(attribute.String("quilkalam.user_id", uid))
		}
	}
}
