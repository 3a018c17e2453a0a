package pagination

const (
	// DefaultPageSize is the standard storefront page size when none is provided.
	DefaultPageSize = 12
	// MaxPageSize caps how many products a single page can request.
	MaxPageSize = 48
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page     int
	PageSize int
}

// Window describes the resolved page over a filtered collection.
type Window struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NormalizePageSize enforces the configured default and maximum sizes.
func NormalizePageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Resolve computes the page window over total items. A requested page past the
// end of the collection resets to page 1; this is how stale page state heals
// after a filter shrinks the result set.
func Resolve(params Params, total int) Window {
	size := NormalizePageSize(params.PageSize)

	pages := 0
	if total > 0 {
		pages = (total + size - 1) / size
	}

	page := params.Page
	if page < 1 || page > pages {
		page = 1
	}

	return Window{
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: pages,
	}
}

// Bounds returns the half-open [start, end) slice indexes for the window.
func (w Window) Bounds() (int, int) {
	if w.TotalItems == 0 {
		return 0, 0
	}
	start := (w.Page - 1) * w.PageSize
	if start >= w.TotalItems {
		return 0, 0
	}
	end := start + w.PageSize
	if end > w.TotalItems {
		end = w.TotalItems
	}
	return start, end
}
