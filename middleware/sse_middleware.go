package middleware

import (
	"github.com/gin-gonic/gin"
)

// SSEHeaders prepares a response for server-sent events. The handler behind
// it owns the event loop and must flush after every write.
func SSEHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Next()
	}
}
