package pagination

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Params holds page-based pagination parameters.
// No upper bound is applied to Limit.
type Params struct {
	Page  int
	Limit int
}

// New normalizes page and limit. Non-positive values fall back to the
// defaults.
func New(page, limit int) Params {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset returns the number of rows to skip: (page-1)*limit.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset()+p.Limit < total
}

// TotalPages returns the number of pages needed for total rows.
func (p Params) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}
