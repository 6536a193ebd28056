package handler

import (
	"vidtube/internal/api/dto"
	"vidtube/internal/api/middleware"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

// Create a playlist
// @Summary Create a playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreatePlaylistRequest true "playlist"
// @Success 201 {object} response.Response{data=model.Playlist}
// @Failure 400 {object} response.ErrorResponse
// @Router /playlist [post]
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req dto.CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	playlist, err := h.playlistService.Create(c.Request.Context(), middleware.Actor(c), req.Name, req.Description)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Created(c, "Playlist created successfully", playlist)
}

// ListByUser playlists of a user
// @Summary List user playlists
// @Tags playlists
// @Produce json
// @Param userId path string true "user id"
// @Success 200 {object} response.Response{data=[]repository.PlaylistView}
// @Router /playlist/user/{userId} [get]
func (h *PlaylistHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	playlists, err := h.playlistService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Playlists fetched successfully", playlists)
}

// Detail of a playlist
// @Summary Get a playlist
// @Tags playlists
// @Produce json
// @Param playlistId path string true "playlist id"
// @Success 200 {object} response.Response{data=repository.PlaylistView}
// @Failure 404 {object} response.ErrorResponse
// @Router /playlist/{playlistId} [get]
func (h *PlaylistHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "playlistId")
	if !ok {
		return
	}
	playlist, err := h.playlistService.Detail(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Playlist fetched successfully", playlist)
}

// Update a playlist
// @Summary Update a playlist
// @Tags playlists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param playlistId path string true "playlist id"
// @Param body body dto.UpdatePlaylistRequest true "fields to change"
// @Success 200 {object} response.Response{data=model.Playlist}
// @Failure 403 {object} response.ErrorResponse
// @Router /playlist/{playlistId} [patch]
func (h *PlaylistHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "playlistId")
	if !ok {
		return
	}
	var req dto.UpdatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	playlist, err := h.playlistService.Update(c.Request.Context(), id, middleware.Actor(c), req.Name, req.Description)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Playlist updated successfully", playlist)
}

// Delete a playlist
// @Summary Delete a playlist
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Param playlistId path string true "playlist id"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse
// @Router /playlist/{playlistId} [delete]
func (h *PlaylistHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "playlistId")
	if !ok {
		return
	}
	if err := h.playlistService.Delete(c.Request.Context(), id, middleware.Actor(c)); err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Playlist deleted successfully", gin.H{"playlistId": id})
}

// AddVideo to a playlist
// @Summary Add a video to a playlist
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "video id"
// @Param playlistId path string true "playlist id"
// @Success 200 {object} response.Response{data=repository.PlaylistView}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /playlist/add/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	playlistID, ok := pathID(c, "playlistId")
	if !ok {
		return
	}
	playlist, err := h.playlistService.AddVideo(c.Request.Context(), playlistID, videoID, middleware.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Video added to playlist", playlist)
}

// RemoveVideo from a playlist
// @Summary Remove a video from a playlist
// @Tags playlists
// @Produce json
// @Security BearerAuth
// @Param videoId path string true "video id"
// @Param playlistId path string true "playlist id"
// @Success 200 {object} response.Response{data=repository.PlaylistView}
// @Failure 404 {object} response.ErrorResponse
// @Router /playlist/remove/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	videoID, ok := pathID(c, "videoId")
	if !ok {
		return
	}
	playlistID, ok := pathID(c, "playlistId")
	if !ok {
		return
	}
	playlist, err := h.playlistService.RemoveVideo(c.Request.Context(), playlistID, videoID, middleware.Actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Video removed from playlist", playlist)
}
