package dto

// SearchQuery full-text video search
type SearchQuery struct {
	PageQuery
	Query  string `form:"query"`
	UserID string `form:"userId" binding:"omitempty,uuid"`
}
