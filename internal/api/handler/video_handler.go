package handler

import (
	"vidtube/internal/api/dto"
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoService *service.VideoService
	uploads      UploadConfig
}

func NewVideoHandler(videoService *service.VideoService, uploads UploadConfig) *VideoHandler {
	return &VideoHandler{videoService: videoService, uploads: uploads}
}

// List published videos
// @Summary List videos
// @Description Published videos with owner summaries, filtered by free text and owner
// @Tags videos
// @Produce json
// @Param query query string false "free text over title and description"
// @Param userId query string false "owner id"
// @Param sortBy query string false "createdAt | views | duration | title"
// @Param sortType query string false "asc | desc"
// @Param page query int false "page, default 1"
// @Param limit query int false "page size, default 10"
// @Success 200 {object} response.Response{data=view.Page}
// @Failure 400 {object} response.ErrorResponse
// @Router /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	var q dto.VideoListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}

	page, err := h.videoService.List(c.Request.Context(), service.ListVideosParams{
		Query:    q.Query,
		SortBy:   q.SortBy,
		SortType: q.SortType,
		UserID:   q.UserID,
		Page:     pageRequest(q.PageQuery),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Videos fetched successfully", page)
}

// Publish a video
// @Summary Publish a video
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "title"
// @Param description formData string true "description"
// @Param videoFile formData file true "video file"
// @Param thumbnail formData file true "thumbnail image"
// @Success 201 {object} response.Response{data=model.Video}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /videos [post]
func (h *VideoHandler) Publish(c *gin.Context) {
	var form dto.PublishVideoForm
	if err := c.ShouldBind(&form); err != nil {
		bindFailed(c, err)
		return
	}

	videoPath, err := stageFile(c, h.uploads, "videoFile", videoExts)
	if err != nil {
		_ = c.Error(err)
		return
	}
	thumbPath, err := stageFile(c, h.uploads, "thumbnail", imageExts)
	if err != nil {
		discard(videoPath)
		_ = c.Error(err)
		return
	}

	video, err := h.videoService.Publish(c.Request.Context(), middleware.Actor(c), service.PublishInput{
		Title:         form.Title,
		Description:   form.Description,
		VideoPath:     videoPath,
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, "Video published successfully", video)
}

// Detail of a video
// @Summary Get a video
// @Description Counts a view and appends to the caller's watch history
// @Tags videos
// @Produce json
// @Param videoId path string true "video id"
// @Success 200 {object} response.Response{data=repository.VideoDetail}
// @Failure 404 {object} response.ErrorResponse
// @Router /videos/{videoId} [get]
func (h *VideoHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	detail, err := h.videoService.Detail(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Video fetched successfully", detail)
}

// Update a video
// @Summary Update a video
// @Tags videos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "video id"
// @Param title formData string false "title"
// @Param description formData string false "description"
// @Param thumbnail formData file false "new thumbnail"
// @Success 200 {object} response.Response{data=model.Video}
// @Failure 403 {object} response.ErrorResponse
// @Router /videos/{videoId} [patch]
func (h *VideoHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	var form dto.UpdateVideoForm
	if err := c.ShouldBind(&form); err != nil {
		bindFailed(c, err)
		return
	}
	thumbPath, err := stageFile(c, h.uploads, "thumbnail", imageExts)
	if err != nil {
		_ = c.Error(err)
		return
	}

	video, err := h.videoService.Update(c.Request.Context(), id, middleware.Actor(c), service.UpdateVideoInput{
		Title:         form.Title,
		Description:   form.Description,
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Video updated successfully", video)
}

// Delete a video
// @Summary Delete a video
// @Description Removes the video, its comments and every like on either
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "video id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /videos/{videoId} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	if err := h.videoService.Delete(c.Request.Context(), id, middleware.Actor(c)); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Video deleted successfully", gin.H{"videoId": id})
}

// TogglePublish flips the published flag
// @Summary Toggle publish status
// @Tags videos
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "video id"
// @Success 200 {object} response.Response{data=model.Video}
// @Router /videos/toggle/publish/{videoId} [patch]
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	id, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	video, err := h.videoService.TogglePublish(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Publish status toggled successfully", video)
}
