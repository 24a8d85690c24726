package pagination

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a normalized page/size pair. Construct it with
// NewPageRequest so out-of-range input cannot reach a query.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewPageRequest clamps raw query input to valid paging values.
func NewPageRequest(page, pageSize int) *PageRequest {
	switch {
	case pageSize <= 0:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	if page <= 0 {
		page = DefaultPage
	}
	return &PageRequest{Page: page, PageSize: pageSize}
}

// GetOffset returns the number of documents to skip.
func (p *PageRequest) GetOffset() int {
	return (p.Page - 1) * p.PageSize
}

// GetLimit returns the query limit.
func (p *PageRequest) GetLimit() int {
	return p.PageSize
}

// PageResult is the listing envelope returned to clients.
type PageResult struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewPageResult wraps one page of data with its paging metadata.
func NewPageResult(data interface{}, total int64, req *PageRequest) *PageResult {
	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	}
	return &PageResult{
		Data:       data,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}
}
