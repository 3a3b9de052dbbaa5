package response

// PageResponse wraps list endpoint payloads with pagination metadata.
type PageResponse[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// NewPageResponse builds a page, normalizing a nil slice so items never
// serializes as JSON null.
func NewPageResponse[T any](items []T, page, pageSize, total int) PageResponse[T] {
	if items == nil {
		items = make([]T, 0)
	}

	return PageResponse[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}
}
