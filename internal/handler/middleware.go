package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	headerRequestID = "X-Request-ID"
	keyRequestID    = "requestID"
)

// RequestLogger tags each request with an id and logs it through logrus once
// it completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := requestID(c.GetHeader(headerRequestID))
		c.Set(keyRequestID, id)
		c.Header(headerRequestID, id)

		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(log.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency":    time.Since(start).String(),
		})

		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request served")
		}
	}
}

// requestID keeps a caller-supplied id only when it is a UUID.
func requestID(header string) string {
	if id, err := uuid.Parse(header); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// Recovery turns handler panics into a JSON 500.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(log.StandardLogger().WriterLevel(log.ErrorLevel), func(c *gin.Context, err any) {
		log.WithField("request_id", c.GetString(keyRequestID)).Errorf("❌ Panic while serving %s: %v", c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"ok": false, "error": msgInternal})
	})
}
