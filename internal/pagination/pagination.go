// Package pagination provides uniform offset/limit windowing for list
// responses. Every list endpoint wraps its items through Paginate so the
// meta contract is identical everywhere.
package pagination

// DefaultLimit is applied by the request layer when no limit is supplied.
const DefaultLimit = 50

// Meta describes the window a page was cut from.
// NextOffset is nil when there are no further pages.
type Meta struct {
	Total      int  `json:"total"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"hasMore"`
	NextOffset *int `json:"nextOffset"`
}

// Page is one window of items plus its meta.
type Page[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
}

// Paginate cuts a window out of items. Limit and offset are clamped to
// non-negative values. An offset past the end returns an empty items
// slice with the correct total, not an error.
func Paginate[T any](items []T, limit, offset int) Page[T] {
	if limit < 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}

	total := len(items)

	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	window := make([]T, end-start)
	copy(window, items[start:end])

	meta := Meta{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
	if meta.HasMore {
		next := offset + limit
		meta.NextOffset = &next
	}

	return Page[T]{Items: window, Meta: meta}
}
