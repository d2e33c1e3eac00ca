package middleware

import (
	"time"

	"attendance/errors"
	"attendance/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
)

// RequestIDMiddleware reuses the caller's X-Request-ID or assigns a new one
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// RequestID returns the id assigned by RequestIDMiddleware
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// LoggerMiddleware writes one access log line per request. Errors attached by
// handlers are logged too; tenant isolation violations at error level.
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		l := log.With(
			"requestId", RequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
		if info, ok := CurrentUser(c); ok {
			l = l.With("employerId", info.EmployerID.String(), "role", info.Role)
		}
		for _, ginErr := range c.Errors {
			switch errors.CodeOf(ginErr.Err) {
			case errors.ErrCodeTenantIsolation, errors.ErrCodeDBError:
				l.Error("request error: %v", ginErr.Err)
			default:
				l.Debug("request rejected: %v", ginErr.Err)
			}
		}
		l.Info("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}
