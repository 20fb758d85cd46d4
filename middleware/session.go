package middleware

import (
	"time"

	"rewards/constants"
	"rewards/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tạo request id nếu chưa có và gán vào context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}

		c.Set(constants.ContextRequestID, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)

		c.Next()
	}
}

// RequestLogger logs one line per request once the handler chain has finished.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		requestID := c.GetString(constants.ContextRequestID)
		if status >= 500 {
			log.Error("❌ [%s] %s %s %d %s", requestID, c.Request.Method, path, status, time.Since(start))
			return
		}
		log.Info("[%s] %s %s %d %s", requestID, c.Request.Method, path, status, time.Since(start))
	}
}
