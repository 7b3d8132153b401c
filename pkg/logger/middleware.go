package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in and out of the API
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id and logs it once the handler
// chain returns, together with any errors handlers attached to the context.
func RequestLogger(l *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		reqLog := l.WithRequestID(requestID)
		if userID := c.GetString("user_id"); userID != "" {
			reqLog = reqLog.WithUserID(userID)
		}
		reqLog.LogHTTPRequest(c, time.Since(start))
		for _, e := range c.Errors {
			reqLog.LogHTTPError(c, e.Err, c.Writer.Status())
		}
	}
}
