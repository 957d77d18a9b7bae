package util

import "strconv"

// ItemsPerPage is the fixed storefront page size.
const ItemsPerPage = 2

type Pagination struct {
	CurrentPage     int   `json:"current_page"`
	TotalProducts   int64 `json:"total_products"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
	NextPage        int   `json:"next_page"`
	PreviousPage    int   `json:"previous_page"`
	LastPage        int   `json:"last_page"`
}

func Paginate(page int, total int64, size int) Pagination {
	if page < 1 {
		page = 1
	}
	return Pagination{
		CurrentPage:     page,
		TotalProducts:   total,
		HasNextPage:     int64(size*page) < total,
		HasPreviousPage: page > 1,
		NextPage:        page + 1,
		PreviousPage:    page - 1,
		LastPage:        int((total + int64(size) - 1) / int64(size)),
	}
}

func Offset(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// FormatMoney renders a price the way the storefront shows it: no
// trailing zeros, so 11 stays "11" and 12.99 stays "12.99".
func FormatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
