package models

import "github.com/shopspring/decimal"

// QuantityPlaces is the number of decimal places every stored quantity keeps.
const QuantityPlaces = 2

// RoundQuantity rounds q to QuantityPlaces.
func RoundQuantity(q decimal.Decimal) decimal.Decimal {
	return q.Round(QuantityPlaces)
}

// ClampQuantity rounds q and floors it at zero.
func ClampQuantity(q decimal.Decimal) decimal.Decimal {
	q = RoundQuantity(q)
	if q.IsNegative() {
		return decimal.Zero
	}
	return q
}

// FormatQuantity renders q without trailing zeros ("12.5", "500").
func FormatQuantity(q decimal.Decimal) string {
	return RoundQuantity(q).String()
}

// FormatSigned renders q with an explicit "+" for positive values.
func FormatSigned(q decimal.Decimal) string {
	if q.IsPositive() {
		return "+" + FormatQuantity(q)
	}
	return FormatQuantity(q)
}

// Pagination holds pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

// MaxPageSize is the largest page Limit allows.
const MaxPageSize = 100

// DefaultPagination returns default pagination settings.
func DefaultPagination() Pagination {
	return Pagination{
		Page:     1,
		PageSize: 25,
	}
}

// Offset calculates the slice offset for the current page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		p.Page = 1
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the page size as limit.
func (p Pagination) Limit() int {
	if p.PageSize < 1 {
		return 25
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// TotalPages calculates the total number of pages.
func (p Pagination) TotalPages(total int) int {
	size := p.Limit()
	pages := total / size
	if total%size > 0 {
		pages++
	}
	if pages < 1 {
		return 1
	}
	return pages
}

// Bounds returns the [start, end) slice bounds of the page within total.
func (p Pagination) Bounds(total int) (int, int) {
	start := p.Offset()
	if start > total {
		start = total
	}
	end := start + p.Limit()
	if end > total {
		end = total
	}
	return start, end
}
