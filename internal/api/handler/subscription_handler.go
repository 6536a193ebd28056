package handler

import (
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"
	"vidtube/internal/toggle"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Toggle subscribes to or unsubscribes from a channel
// @Summary Toggle subscription
// @Tags subscriptions
// @Produce json
// @Security BearerAuth
// @Param channelId path string true "channel (user) id"
// @Success 200 {object} response.Response{data=service.SubscriptionResult}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /subscriptions/c/{channelId} [post]
func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	channelID, ok := pathID(c, "channelId")
	if !ok {
		return
	}
	res, err := h.subscriptionService.Toggle(c.Request.Context(), channelID, middleware.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	msg := "Subscribed successfully"
	if res.State == toggle.Removed {
		msg = "Unsubscribed successfully"
	}
	response.OK(c, msg, res)
}

// Subscribers of a channel
// @Summary Channel subscribers
// @Tags subscriptions
// @Produce json
// @Param channelId path string true "channel (user) id"
// @Success 200 {object} response.Response{data=[]repository.Subscriber}
// @Router /subscriptions/c/{channelId} [get]
func (h *SubscriptionHandler) Subscribers(c *gin.Context) {
	channelID, ok := pathID(c, "channelId")
	if !ok {
		return
	}
	subs, err := h.subscriptionService.Subscribers(c.Request.Context(), channelID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Subscribers fetched successfully", subs)
}

// SubscribedChannels of a user
// @Summary Subscribed channels
// @Tags subscriptions
// @Produce json
// @Param subscriberId path string true "subscriber (user) id"
// @Success 200 {object} response.Response{data=[]repository.SubscribedChannel}
// @Router /subscriptions/u/{subscriberId} [get]
func (h *SubscriptionHandler) SubscribedChannels(c *gin.Context) {
	subscriberID, ok := pathID(c, "subscriberId")
	if !ok {
		return
	}
	channels, err := h.subscriptionService.SubscribedChannels(c.Request.Context(), subscriberID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Subscribed channels fetched successfully", channels)
}
