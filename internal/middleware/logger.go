package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"chat_service/pkg/log"
)

const headerRequestID = "X-Request-ID"

// RequestLogger 為每個請求建立帶有 request_id 的子記錄器並放進 context
// 請求結束後記錄狀態碼、耗時與上游附加的身分
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(headerRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}

		child := logger.With().
			Str(log.FieldRequestID, reqID).
			Str(log.FieldMethod, c.Request.Method).
			Str(log.FieldPath, c.Request.URL.Path).
			Str(log.FieldClientIP, c.ClientIP()).
			Logger()

		c.Header(headerRequestID, reqID)
		c.Request = c.Request.WithContext(log.WithLogger(c.Request.Context(), child))

		c.Next()

		latency := time.Since(start)
		evt := child.Info().
			Int(log.FieldStatus, c.Writer.Status()).
			Float64(log.FieldLatency, float64(latency)/float64(time.Millisecond))
		if identity, ok := GetIdentity(c); ok {
			evt = evt.Str(log.FieldUsername, identity.Username)
		}
		evt.Msg("request completed")
	}
}
