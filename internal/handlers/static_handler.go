package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harentsoaR/appointments-api/internal/middleware"
	"github.com/harentsoaR/appointments-api/internal/static"
)

// Fallback handles every request no route matched: unknown API routes get a
// JSON 404, everything else is looked up in the asset root.
func (h *Handler) Fallback(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, APIPrefix) {
		respondMessage(c, http.StatusNotFound, "API route not found.")
		return
	}
	h.ServeAsset(c)
}

func (h *Handler) ServeAsset(c *gin.Context) {
	data, contentType, err := h.Assets.Read(c.Request.URL.Path)
	switch {
	case errors.Is(err, static.ErrForbidden):
		h.Logger.Warn("rejected asset path outside root",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
		)
		c.String(http.StatusForbidden, "Forbidden")
	case err != nil:
		c.String(http.StatusNotFound, "Not Found")
	default:
		c.Data(http.StatusOK, contentType, data)
	}
}
