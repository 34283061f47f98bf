package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	Env string
}

func NewHealthHandler(env string) *HealthHandler { return &HealthHandler{Env: env} }

// Health handles GET /health.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":      "OK",
		"message":     "movie rental storefront is running",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.Env,
	})
}
