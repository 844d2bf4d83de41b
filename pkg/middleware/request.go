package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
	"github.com/varshinivarma16/booksbackend/pkg/metrics"
)

// RequestLogger stamps every request with an X-Request-ID, records the
// request metrics and writes one access log line.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("requestID", rid)
		c.Header("X-Request-ID", rid)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

		switch {
		case status >= 500:
			logger.Errorf("%s %s %d %s rid=%s", c.Request.Method, c.Request.URL.Path, status, elapsed, rid)
		case status >= 400:
			logger.Warnf("%s %s %d %s rid=%s", c.Request.Method, c.Request.URL.Path, status, elapsed, rid)
		default:
			logger.Infof("%s %s %d %s rid=%s", c.Request.Method, c.Request.URL.Path, status, elapsed, rid)
		}
	}
}
