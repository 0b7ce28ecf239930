package middleware

import (
	"time"

	"anoa.com/skillnest/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger writes one access log line per request, skipping the given paths.
func RequestLogger(log *logger.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		if _, ok := skip[path]; ok {
			return
		}

		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if userID := c.GetString("user_id"); userID != "" {
			kv = append(kv, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("request", kv...)
		case status >= 400:
			log.Warn("request", kv...)
		default:
			log.Info("request", kv...)
		}
	}
}
