package handler

import (
	"context"

	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"
	"vidtube/internal/toggle"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

type toggleFunc func(ctx context.Context, targetID, actor uuid.UUID) (*service.LikeResult, error)

func (h *LikeHandler) toggle(c *gin.Context, param string, fn toggleFunc) {
	id, ok := pathID(c, param)
	if !ok {
		return
	}
	res, err := fn(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	msg := "Like added"
	if res.State == toggle.Removed {
		msg = "Like removed"
	}
	response.OK(c, msg, res)
}

// ToggleVideo likes or unlikes a video
// @Summary Toggle video like
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "video id"
// @Success 200 {object} response.Response{data=service.LikeResult}
// @Failure 404 {object} response.ErrorResponse
// @Router /likes/toggle/v/{videoId} [post]
func (h *LikeHandler) ToggleVideo(c *gin.Context) {
	h.toggle(c, "videoId", h.likeService.ToggleVideo)
}

// ToggleComment likes or unlikes a comment
// @Summary Toggle comment like
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "comment id"
// @Success 200 {object} response.Response{data=service.LikeResult}
// @Router /likes/toggle/c/{commentId} [post]
func (h *LikeHandler) ToggleComment(c *gin.Context) {
	h.toggle(c, "commentId", h.likeService.ToggleComment)
}

// ToggleTweet likes or unlikes a tweet
// @Summary Toggle tweet like
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Param tweetId path string true "tweet id"
// @Success 200 {object} response.Response{data=service.LikeResult}
// @Router /likes/toggle/t/{tweetId} [post]
func (h *LikeHandler) ToggleTweet(c *gin.Context) {
	h.toggle(c, "tweetId", h.likeService.ToggleTweet)
}

// LikedVideos of the caller
// @Summary Liked videos
// @Tags likes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]repository.LikedVideo}
// @Router /likes/videos [get]
func (h *LikeHandler) LikedVideos(c *gin.Context) {
	videos, err := h.likeService.LikedVideos(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Liked videos fetched successfully", videos)
}
