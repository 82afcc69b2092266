package projection

import "math"

// Page is one window of an ordered collection together with its position in
// the whole. Pages are built once per request and not modified afterwards.
type Page[T any] struct {
	Items       []T
	TotalCount  int
	PageSize    int
	CurrentPage int
	TotalPages  int
}

// HasPrevious reports whether a page precedes this one.
func (p Page[T]) HasPrevious() bool {
	return p.CurrentPage > 1
}

// HasNext reports whether a page follows this one.
func (p Page[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

// Offset returns the number of elements preceding pageNumber. It saturates at
// math.MaxInt instead of overflowing.
func Offset(pageNumber, pageSize int) int {
	if pageNumber < 1 || pageSize < 1 {
		return 0
	}
	if pageNumber-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (pageNumber - 1) * pageSize
}

// Paginate cuts page pageNumber out of an ordered, filtered collection.
// totalCount must be the size of the filtered collection before paging.
// A page past the end is empty rather than an error. items is not modified.
//
// pageSize is expected to be clamped by the caller.
func Paginate[T any](items []T, totalCount, pageNumber, pageSize int) Page[T] {
	var window []T
	if pageSize > 0 && len(items) > 0 && max(pageNumber-1, 0) <= (len(items)-1)/pageSize {
		skip := Offset(pageNumber, pageSize)
		end := skip + min(pageSize, len(items)-skip)
		window = items[skip:end:end]
	}
	return NewPage(window, totalCount, pageNumber, pageSize)
}

// NewPage wraps an already-sliced window, e.g. rows returned by a LIMIT/OFFSET
// query, with page metadata.
func NewPage[T any](window []T, totalCount, pageNumber, pageSize int) Page[T] {
	totalPages := 0
	if pageSize > 0 && totalCount > 0 {
		totalPages = (totalCount-1)/pageSize + 1
	}
	if window == nil {
		window = []T{}
	}
	return Page[T]{
		Items:       window,
		TotalCount:  totalCount,
		PageSize:    pageSize,
		CurrentPage: pageNumber,
		TotalPages:  totalPages,
	}
}

// MapPage converts the items of a page, keeping its metadata.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return Page[U]{
		Items:       items,
		TotalCount:  p.TotalCount,
		PageSize:    p.PageSize,
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
	}
}
