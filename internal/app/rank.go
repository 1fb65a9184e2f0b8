package app

import (
	"math"
	"sort"

	"rateadmin/internal/domain"
)

// SortRatePlanRows orders rows ascending by AmountAfterTax. Unpriced rows
// (nil amount) rank as +Inf and form a contiguous suffix. The sort is stable
// and works on a copy: duplicate-priced offers keep their relative order
// across repeated calls on identical input, and the caller's slice is never
// reordered under it.
func SortRatePlanRows(rows []domain.RatePlanRow) []domain.RatePlanRow {
	out := make([]domain.RatePlanRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return sortPrice(out[i].AmountAfterTax) < sortPrice(out[j].AmountAfterTax)
	})
	return out
}

func sortPrice(p *float64) float64 {
	if p == nil {
		return math.Inf(1)
	}
	return *p
}
