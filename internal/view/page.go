package view

import (
	"context"
	"strconv"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest 1-based page window
type PageRequest struct {
	Page  int
	Limit int
}

// ParsePageRequest reads raw query values; missing, malformed or
// non-positive values fall back to the defaults and limit is capped.
func ParsePageRequest(page, limit string) PageRequest {
	req := PageRequest{Page: DefaultPage, Limit: DefaultLimit}
	if p, err := strconv.Atoi(page); err == nil && p > 0 {
		req.Page = p
	}
	if l, err := strconv.Atoi(limit); err == nil && l > 0 {
		req.Limit = l
	}
	return req.Normalize()
}

// Normalize applies the defaults and the limit cap
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = DefaultPage
	}
	if r.Limit < 1 {
		r.Limit = DefaultLimit
	}
	if r.Limit > MaxLimit {
		r.Limit = MaxLimit
	}
	return r
}

// Offset of the first row of the page
func (r PageRequest) Offset() int {
	r = r.Normalize()
	return (r.Page - 1) * r.Limit
}

// Page is a paginated result
type Page struct {
	Docs        interface{} `json:"docs"`
	TotalDocs   int64       `json:"totalDocs"`
	Limit       int         `json:"limit"`
	Page        int         `json:"page"`
	TotalPages  int         `json:"totalPages"`
	HasPrevPage bool        `json:"hasPrevPage"`
	HasNextPage bool        `json:"hasNextPage"`
	PrevPage    *int        `json:"prevPage"`
	NextPage    *int        `json:"nextPage"`
}

// NewPage computes page metadata for total matching rows
func NewPage(req PageRequest, total int64, docs interface{}) Page {
	req = req.Normalize()
	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	p := Page{
		Docs:       docs,
		TotalDocs:  total,
		Limit:      req.Limit,
		Page:       req.Page,
		TotalPages: totalPages,
	}
	if req.Page > 1 {
		prev := req.Page - 1
		p.HasPrevPage = true
		p.PrevPage = &prev
	}
	if req.Page < totalPages {
		next := req.Page + 1
		p.HasNextPage = true
		p.NextPage = &next
	}
	return p
}

// Paginate counts the base rows, then loads the requested window into dest
// (a pointer to a slice).
func Paginate(ctx context.Context, db *gorm.DB, q Query, req PageRequest, dest interface{}) (Page, error) {
	req = req.Normalize()
	total, err := q.Count(ctx, db)
	if err != nil {
		return Page{}, err
	}
	if total > 0 && int64(req.Offset()) < total {
		if err := q.Window(ctx, db, req.Limit, req.Offset(), dest); err != nil {
			return Page{}, err
		}
	}
	return NewPage(req, total, dest), nil
}
