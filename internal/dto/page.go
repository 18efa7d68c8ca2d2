package dto

// Page is the envelope returned by paginated listings. Page numbering is 0-based.
type Page[T any] struct {
	Items         []T   `json:"items"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	Last          bool  `json:"last"`
}

// NewPage builds a Page, deriving the Last flag from the total count.
func NewPage[T any](items []T, page, size int, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	last := int64(page+1)*int64(size) >= total
	return &Page[T]{
		Items:         items,
		Page:          page,
		Size:          size,
		TotalElements: total,
		Last:          last,
	}
}

// MapPage converts a page's items, keeping the envelope metadata.
func MapPage[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	items := make([]U, len(p.Items))
	for i, item := range p.Items {
		items[i] = fn(item)
	}
	return &Page[U]{
		Items:         items,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		Last:          p.Last,
	}
}
