package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes is the largest request body the API accepts.
const MaxBodyBytes int64 = 1_000_000

// BodyLimit caps request bodies at limit bytes. Reads past the cap fail with
// *http.MaxBytesError.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
