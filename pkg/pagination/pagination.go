package pagination

const (
	// DefaultPerPage is the standard page size when one is not provided.
	DefaultPerPage = 25
	// MaxPerPage caps how many rows any page can request.
	MaxPerPage = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
}

// Meta describes the page that was returned.
type Meta struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	HasMore bool `json:"has_more"`
}

// Normalize clamps page to >= 1 and per_page to [1, MaxPerPage], applying
// defaults for non-positive values.
func Normalize(p Params) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// LimitWithBuffer returns the normalized per_page plus one row so callers
// can detect a following page without a count query.
func LimitWithBuffer(p Params) int {
	return Normalize(p).PerPage + 1
}

// Offset returns the row offset for the normalized params.
func Offset(p Params) int {
	p = Normalize(p)
	return (p.Page - 1) * p.PerPage
}
