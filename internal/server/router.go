package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/appointments-api/internal/handlers"
	"github.com/harentsoaR/appointments-api/internal/middleware"
)

// NewRouter wires the API routes and the static fallback onto a gin engine.
func NewRouter(h *handlers.Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	// A trailing slash is a different path, not a redirect.
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.AccessLog(logger),
	)

	api := r.Group("/api")
	api.Use(middleware.CORS(), middleware.BodyLimit(middleware.MaxBodyBytes))
	{
		api.GET("/appointments", h.GetAppointments)
		api.POST("/appointments", h.CreateAppointment)
		api.OPTIONS("/*path", h.Preflight)
	}

	r.NoRoute(h.Fallback)
	return r
}
