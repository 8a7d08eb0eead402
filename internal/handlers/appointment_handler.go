package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/appointments-api/internal/middleware"
	"github.com/harentsoaR/appointments-api/internal/models"
	"github.com/harentsoaR/appointments-api/internal/validation"
)

// --- LIST APPOINTMENTS ---
func (h *Handler) GetAppointments(c *gin.Context) {
	appointments, err := h.Appointments.List(c.Request.Context())
	if err != nil {
		h.Logger.Error("failed to load appointments",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		respondMessage(c, http.StatusInternalServerError, "Failed to load appointments")
		return
	}

	if appointments == nil {
		appointments = make([]models.Appointment, 0)
	}
	respondJSON(c, http.StatusOK, gin.H{"appointments": appointments})
}

// --- CREATE APPOINTMENT ---
func (h *Handler) CreateAppointment(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Logger.Warn("request body too large, dropping connection",
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Int64("limit", tooLarge.Limit),
			)
			panic(http.ErrAbortHandler)
		}
		h.Logger.Error("failed to read request body",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		respondMessage(c, http.StatusInternalServerError, "Unable to save appointment.")
		return
	}

	in, err := validation.DecodeCreatePayload(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	apt, err := h.Appointments.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, apt)
}

// --- CORS PREFLIGHT ---
func (h *Handler) Preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", strings.Join(middleware.AllowedMethods, ", "))
	c.Header("Access-Control-Allow-Headers", strings.Join(middleware.AllowedHeaders, ", "))
	c.Status(http.StatusNoContent)
}

// respondError maps create failures to a status: validation errors are the
// client's fault, anything else is reported without detail.
func (h *Handler) respondError(c *gin.Context, err error) {
	var vErr validation.ValidationError
	if errors.As(err, &vErr) {
		respondMessage(c, http.StatusBadRequest, vErr.Error())
		return
	}

	h.Logger.Error("failed to save appointment",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err),
	)
	respondMessage(c, http.StatusInternalServerError, "Unable to save appointment.")
}
