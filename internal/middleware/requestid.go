package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDKey = "request_id"

// RequestID injects a unique identifier for each incoming HTTP request.
//
// An X-Request-ID supplied by the caller (e.g. a gateway) is reused so the
// id stays stable across hops; otherwise a fresh UUID is generated. The id
// is stored in the Gin context and echoed back in the response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)

		c.Next()
	}
}
