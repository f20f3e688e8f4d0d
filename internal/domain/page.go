package domain

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 25 // largest page both REST providers accept
)

// PageParams holds pagination for listing operations.
type PageParams struct {
	Page     int // 1-indexed
	PageSize int
}

// NewPageParams applies defaults and bounds to page and pageSize.
func NewPageParams(page, pageSize int) PageParams {
	p := PageParams{Page: page, PageSize: pageSize}
	p.Normalize()

	return p
}

// Normalize corrects out-of-range values in place. This is bound
// correction, not validation.
func (p *PageParams) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset returns the zero-based item offset of the first item on the page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
