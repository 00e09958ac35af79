package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Pagination is the page window passed down to repositories.
type Pagination struct {
	Page  int
	Limit int
}

// Offset returns the number of documents to skip.
func (p *Pagination) Offset() int {
	if p == nil || p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// GetPagination extracts pagination parameters from the request query.
func GetPagination(c echo.Context) *Pagination {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	if page <= 0 {
		page = 1
	}

	if limit <= 0 || limit > 100 {
		limit = 20 // Default page size
	}

	return &Pagination{
		Page:  page,
		Limit: limit,
	}
}

// Window applies the pagination to an already ordered slice length and
// returns the [start, end) bounds.
func (p *Pagination) Window(total int) (int, int) {
	if p == nil || p.Limit <= 0 {
		return 0, total
	}
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return start, end
}
