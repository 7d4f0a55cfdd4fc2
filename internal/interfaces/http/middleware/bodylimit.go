package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tripled/backend/internal/interfaces/http/dto"
)

// DefaultMaxBodySize is the default request body limit (1 MiB)
const DefaultMaxBodySize int64 = 1 << 20

// BodySizeLimit rejects requests whose declared Content-Length exceeds
// the limit and caps reads on the body for requests without one
func BodySizeLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Request body too large"))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
