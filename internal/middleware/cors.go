package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	AllowedHeaders = []string{"Content-Type"}
)

// CORS answers cross-origin requests from any origin for the API routes.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    AllowedMethods,
		AllowHeaders:    AllowedHeaders,
		MaxAge:          12 * time.Hour,
	})
}
