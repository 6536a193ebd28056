package handler

import (
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats of the caller's channel
// @Summary Channel stats
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=repository.ChannelStats}
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Channel stats fetched successfully", stats)
}

// Videos of the caller's channel, published or not
// @Summary Channel videos
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]repository.ChannelVideo}
// @Router /dashboard/videos [get]
func (h *DashboardHandler) Videos(c *gin.Context) {
	videos, err := h.dashboardService.Videos(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Channel videos fetched successfully", videos)
}
