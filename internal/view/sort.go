package view

import (
	"strings"

	"vidtube/internal/apperr"
)

// sortable maps API sort keys to video columns
var sortable = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"duration":  "duration",
	"title":     "title",
}

// SortOrder turns sortBy/sortType into ORDER BY terms on alias. Empty input
// means newest first; unknown keys are rejected. The id tie-breaker keeps
// pages stable when the sort column has duplicates.
func SortOrder(alias, sortBy, sortType string) ([]string, error) {
	col := "created_at"
	if sortBy != "" {
		c, ok := sortable[sortBy]
		if !ok {
			return nil, apperr.Validation("invalid sortBy", "sortBy must be one of createdAt, views, duration, title")
		}
		col = c
	}

	dir := "DESC"
	switch strings.ToLower(sortType) {
	case "", "desc":
	case "asc":
		dir = "ASC"
	default:
		return nil, apperr.Validation("invalid sortType", "sortType must be asc or desc")
	}

	return []string{
		alias + "." + col + " " + dir,
		alias + ".id " + dir,
	}, nil
}
