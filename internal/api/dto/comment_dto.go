package dto

// ContentRequest body of comment and tweet writes
type ContentRequest struct {
	Content string `json:"content" binding:"required"`
}
