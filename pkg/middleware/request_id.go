package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hairbystephanie/site/backend/go-services/pkg/logger"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestID propagates an incoming X-Request-ID or assigns a new uuid.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one line per request tagged with the id set by
// RequestID. Server errors log at error level, client errors at warn.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		log := logger.With(RequestIDKey, c.GetString(RequestIDKey))
		status := c.Writer.Status()
		switch {
		case status >= 500:
			log.Errorf("%s %s %d %s", c.Request.Method, path, status, time.Since(start))
		case status >= 400:
			log.Warnf("%s %s %d %s", c.Request.Method, path, status, time.Since(start))
		default:
			log.Infof("%s %s %d %s", c.Request.Method, path, status, time.Since(start))
		}
	}
}
