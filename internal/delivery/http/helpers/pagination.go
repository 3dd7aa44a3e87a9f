package helpers

import (
	"net/url"
	"strconv"

	"fieldbooking/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size from the query string. Missing
// values take the defaults and page_size is capped at MaxPageSize; anything
// that is not a positive integer is a validation error.
func ParsePagination(q url.Values) (domain.PaginationParams, error) {
	p := domain.PaginationParams{Page: DefaultPage, PageSize: DefaultPageSize}
	var err error
	if p.Page, err = positiveInt(q, "page", DefaultPage); err != nil {
		return p, err
	}
	if p.PageSize, err = positiveInt(q, "page_size", DefaultPageSize); err != nil {
		return p, err
	}
	p.PageSize = min(p.PageSize, MaxPageSize)
	return p, nil
}

func positiveInt(q url.Values, key string, def int) (int, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def, domain.NewValidationError("%s must be a positive integer", key)
	}
	return v, nil
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta builds PaginationMeta from the current page, page size, and total count.
// TotalPages is computed as ceiling(total / pageSize); if pageSize is 0, TotalPages is 0.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Page returns the slice of items selected by p and the matching metadata.
// A page past the end yields an empty, non-nil slice.
func Page[T any](items []T, p domain.PaginationParams) ([]T, PaginationMeta) {
	total := len(items)
	start, end := p.Bounds(total)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, NewPaginationMeta(p.Page, p.PageSize, total)
}
