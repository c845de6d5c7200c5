package models

import (
	"fmt"

	dErrors "almanah/pkg/domain-errors"
)

const (
	MinPageSize     = 1
	MaxPageSize     = 100
	DefaultPageSize = 10
	// RecentLimit is how many templates the "recently owned" strip shows.
	RecentLimit = 8
)

// PageRequest is a 1-indexed page of a listing.
type PageRequest struct {
	Page     int
	PageSize int
}

// NewPageRequest validates paging input.
func NewPageRequest(page, pageSize int) (PageRequest, error) {
	if page < 1 {
		return PageRequest{}, dErrors.New(dErrors.CodeInvalidPageParameters, "page must be at least 1")
	}
	if pageSize < MinPageSize || pageSize > MaxPageSize {
		return PageRequest{}, dErrors.New(dErrors.CodeInvalidPageParameters,
			fmt.Sprintf("pageSize must be between %d and %d", MinPageSize, MaxPageSize))
	}
	return PageRequest{Page: page, PageSize: pageSize}, nil
}

// Offset is the number of rows before the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is one page of items plus the size of the whole listing.
type Page[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// NewPage guarantees a non-nil item slice so empty pages encode as [].
func NewPage[T any](req PageRequest, items []T, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, PageSize: req.PageSize}
}
