package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"quilkalam-api/pkg/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics 按路由模板采集 HTTP 指标，skipPath 本身不计入
func Metrics(skipPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == skipPath {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method
		if size := c.Request.ContentLength; size > 0 {
			metrics.HTTPRequestSize.WithLabelValues(method, route).Observe(float64(size))
		}

		metrics.HTTPRequestsInFlight.Inc()
		start := time.Now()
		defer func() {
			metrics.HTTPRequestsInFlight.Dec()
			metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			if size := c.Writer.Size(); size > 0 {
				metrics.HTTPResponseSize.WithLabelValues(method, route).Observe(float64(size))
			}
		}()

		c.Next()
	}
}
