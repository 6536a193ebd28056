package dto

// PageQuery 1-based pagination query parameters
type PageQuery struct {
	Page  string `form:"page"`
	Limit string `form:"limit"`
}

// VideoListQuery listing filters
type VideoListQuery struct {
	PageQuery
	Query    string `form:"query"`
	SortBy   string `form:"sortBy" binding:"omitempty,oneof=createdAt views duration title"`
	SortType string `form:"sortType" binding:"omitempty,oneof=asc desc ASC DESC"`
	UserID   string `form:"userId" binding:"omitempty,uuid"`
}

// PublishVideoForm text fields of the multipart publish request; the files
// travel as videoFile and thumbnail
type PublishVideoForm struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description" binding:"required"`
}

// UpdateVideoForm partial update; an optional thumbnail file may accompany it
type UpdateVideoForm struct {
	Title       *string `form:"title" json:"title" binding:"omitempty,max=200"`
	Description *string `form:"description" json:"description"`
}
