package handler

import (
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// WatchHistory of the caller
// @Summary Watch history
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]repository.HistoryVideo}
// @Router /users/history [get]
func (h *UserHandler) WatchHistory(c *gin.Context) {
	history, err := h.userService.WatchHistory(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Watch history fetched successfully", history)
}
