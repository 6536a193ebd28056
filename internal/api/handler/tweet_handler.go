package handler

import (
	"vidtube/internal/api/dto"
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type TweetHandler struct {
	tweetService *service.TweetService
}

func NewTweetHandler(tweetService *service.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

// Create a tweet
// @Summary Create a tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ContentRequest true "tweet"
// @Success 201 {object} response.Response{data=model.Tweet}
// @Failure 400 {object} response.ErrorResponse
// @Router /tweets [post]
func (h *TweetHandler) Create(c *gin.Context) {
	var req dto.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	tweet, err := h.tweetService.Create(c.Request.Context(), middleware.Actor(c), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, "Tweet created successfully", tweet)
}

// ListByUser tweets of a user
// @Summary List user tweets
// @Tags tweets
// @Produce json
// @Param userId path string true "user id"
// @Success 200 {object} response.Response{data=[]repository.TweetView}
// @Failure 404 {object} response.ErrorResponse
// @Router /tweets/user/{userId} [get]
func (h *TweetHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	tweets, err := h.tweetService.ListByUser(c.Request.Context(), userID, middleware.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Tweets fetched successfully", tweets)
}

// Update a tweet
// @Summary Update a tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param tweetId path string true "tweet id"
// @Param body body dto.ContentRequest true "new content"
// @Success 200 {object} response.Response{data=model.Tweet}
// @Failure 403 {object} response.ErrorResponse
// @Router /tweets/{tweetId} [patch]
func (h *TweetHandler) Update(c *gin.Context) {
	tweetID, ok := pathID(c, "tweetId")
	if !ok {
		return
	}
	var req dto.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	tweet, err := h.tweetService.Update(c.Request.Context(), tweetID, middleware.Actor(c), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Tweet updated successfully", tweet)
}

// Delete a tweet
// @Summary Delete a tweet
// @Tags tweets
// @Produce json
// @Security BearerAuth
// @Param tweetId path string true "tweet id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /tweets/{tweetId} [delete]
func (h *TweetHandler) Delete(c *gin.Context) {
	tweetID, ok := pathID(c, "tweetId")
	if !ok {
		return
	}
	if err := h.tweetService.Delete(c.Request.Context(), tweetID, middleware.Actor(c)); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Tweet deleted successfully", gin.H{"tweetId": tweetID})
}
