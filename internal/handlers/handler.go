package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/appointments-api/internal/services"
	"github.com/harentsoaR/appointments-api/internal/static"
)

// APIPrefix marks requests handled by the JSON API. Everything else is a
// static asset request.
const APIPrefix = "/api/"

// Handler holds the collaborators every route needs.
type Handler struct {
	Appointments *services.AppointmentService
	Assets       *static.Resolver
	Logger       *zap.Logger
}

func NewHandler(appointments *services.AppointmentService, assets *static.Resolver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Appointments: appointments,
		Assets:       assets,
		Logger:       logger,
	}
}

// respondJSON writes payload with the CORS origin header every API
// response carries.
func respondJSON(c *gin.Context, status int, payload any) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.JSON(status, payload)
}

func respondMessage(c *gin.Context, status int, message string) {
	respondJSON(c, status, gin.H{"message": message})
}
