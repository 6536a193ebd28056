package handler

import (
	"time"

	"vidtube/internal/api/response"
	"vidtube/internal/config"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	app *config.AppConfig
}

func NewHealthHandler(app *config.AppConfig) *HealthHandler {
	return &HealthHandler{app: app}
}

// Check liveness probe
func (h *HealthHandler) Check(c *gin.Context) {
	response.OK(c, "Service is healthy", gin.H{
		"service":   h.app.Name,
		"version":   h.app.Version,
		"mode":      h.app.Mode,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
