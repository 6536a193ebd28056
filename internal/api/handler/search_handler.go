package handler

import (
	"vidtube/internal/api/dto"
	"vidtube/internal/api/response"
	"vidtube/internal/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search published videos
// @Summary Search videos
// @Description Full-text search over title and description. Falls back to the database when the index is unavailable.
// @Tags videos
// @Produce json
// @Param query query string false "search text"
// @Param userId query string false "owner id"
// @Param page query int false "page, default 1"
// @Param limit query int false "page size, default 10"
// @Success 200 {object} response.Response{data=view.Page}
// @Failure 400 {object} response.ErrorResponse
// @Router /videos/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err)
		return
	}
	page, err := h.searchService.Search(c.Request.Context(), service.SearchParams{
		Query:  q.Query,
		UserID: q.UserID,
		Page:   pageRequest(q.PageQuery),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, "Videos fetched successfully", page)
}
