package order

import (
	"strings"

	"github.com/hrrarya/order-pdf-export/internal/service/models/status"
)

const DefaultPageSize = 20

// QueryOrdersModel filters the admin order list.
type QueryOrdersModel struct {
	Search   string
	Status   status.Status
	Page     int
	PageSize int
}

// Normalize clamps paging and sanitizes the search term before the model
// reaches the store.
func (q *QueryOrdersModel) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	q.Search = SanitizeSearch(q.Search)
}

func (q *QueryOrdersModel) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// SanitizeSearch strips markup-significant characters from a customer
// search term and caps its length.
func SanitizeSearch(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '"', '\'':
			return -1
		default:
			return r
		}
	}, s)
	if len(s) > 100 {
		s = s[:100]
	}

	return s
}
