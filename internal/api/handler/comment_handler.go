package handler

import (
	"vidtube/internal/api/dto"
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// List comments of a video
// @Summary List comments
// @Tags comments
// @Produce json
// @Param videoId path string true "video id"
// @Param page query int false "page, default 1"
// @Param limit query int false "page size, default 10"
// @Success 200 {object} response.Response{data=view.Page}
// @Failure 404 {object} response.ErrorResponse
// @Router /comments/{videoId} [get]
func (h *CommentHandler) List(c *gin.Context) {
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	page, err := h.commentService.List(c.Request.Context(), videoID, middleware.Actor(c), pageRequest(q))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Comments fetched successfully", page)
}

// Add a comment
// @Summary Add a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "video id"
// @Param body body dto.ContentRequest true "comment"
// @Success 201 {object} response.Response{data=model.Comment}
// @Failure 400 {object} response.ErrorResponse
// @Router /comments/{videoId} [post]
func (h *CommentHandler) Add(c *gin.Context) {
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	var req dto.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	comment, err := h.commentService.Add(c.Request.Context(), videoID, middleware.Actor(c), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, "Comment added successfully", comment)
}

// Update a comment
// @Summary Update a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "comment id"
// @Param body body dto.ContentRequest true "new content"
// @Success 200 {object} response.Response{data=model.Comment}
// @Failure 403 {object} response.ErrorResponse
// @Router /comments/c/{commentId} [patch]
func (h *CommentHandler) Update(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	var req dto.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	comment, err := h.commentService.Update(c.Request.Context(), commentID, middleware.Actor(c), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Comment updated successfully", comment)
}

// Delete a comment
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentId path string true "comment id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /comments/c/{commentId} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	if err := h.commentService.Delete(c.Request.Context(), commentID, middleware.Actor(c)); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Comment deleted successfully", gin.H{"commentId": commentID})
}
