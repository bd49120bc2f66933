package domain

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a normalized page request.
type Page struct {
	Number int
	Limit  int
}

// NewPage applies defaults to missing or nonsensical values and caps the limit.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Page{Number: number, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalPosts  int64 `json:"totalPosts"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func NewPagination(page Page, total int64) Pagination {
	totalPages := int((total + int64(page.Limit) - 1) / int64(page.Limit))
	return Pagination{
		CurrentPage: page.Number,
		TotalPages:  totalPages,
		TotalPosts:  total,
		HasNextPage: page.Number < totalPages,
		HasPrevPage: page.Number > 1,
	}
}
