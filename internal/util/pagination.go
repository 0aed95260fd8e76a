package util

// Calculate turns a 1-based page number and a page size into an SQL
// offset/limit pair. Out-of-range input is clamped, never rejected.
func Calculate(page, size int) (from, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	from = (page - 1) * size
	return from, size
}

// Pages carries pagination state for a rendered listing.
type Pages struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// NewPages builds listing metadata for page/size against a total row count.
func NewPages(page, size int, total int64) Pages {
	if page < 1 {
		page = 1
	}
	offset, limit := Calculate(page, size)
	return Pages{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset+limit) < total,
	}
}
