package models

// Page is one page of search results with its position in the full set.
type Page[T any] struct {
	Items       []T
	CurrentPage int
	PerPage     int
	Total       int64
	TotalPages  int
}

// NewPage fills in TotalPages as ceil(total/perPage).
func NewPage[T any](items []T, page, perPage int, total int64) *Page[T] {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:       items,
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
	}
}
