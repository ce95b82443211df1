package shared

import (
	"errors"

	"github.com/wms/backend/internal/domain/shared"
)

// ListFilter holds the paging and search options for list endpoints
type ListFilter struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search    string `form:"search" binding:"max=100"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// ToDomain fills unset fields from shared.DefaultFilter
func (f ListFilter) ToDomain() shared.Filter {
	out := shared.DefaultFilter()
	if f.Page > 0 {
		out.Page = f.Page
	}
	if f.PageSize > 0 {
		out.PageSize = f.PageSize
	}
	if f.SortBy != "" {
		out.OrderBy = f.SortBy
	}
	if f.SortOrder != "" {
		out.OrderDir = f.SortOrder
	}
	out.Search = f.Search
	return out
}

// NotFound replaces a bare repository NOT_FOUND with a message naming the
// missing entity. Other errors pass through unchanged.
func NotFound(err error, format string, args ...any) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFoundf(format, args...)
	}
	return err
}
