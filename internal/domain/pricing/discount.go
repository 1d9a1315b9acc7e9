package pricing

import (
	"strconv"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Discount returns the rounded percentage by which special undercuts normal:
// round(((normal - special) / normal) * 100). normal must be non-zero; the
// caller guards. A negative result means the special price is above the
// normal price.
func Discount(normal, special decimal.Decimal) int {
	return int(normal.Sub(special).Div(normal).Mul(hundred).Round(0).IntPart())
}

// DiscountLabel renders an integer discount for list views. Negative values
// flip to their magnitude with the MORE suffix: -20 becomes "20% MORE".
func DiscountLabel(pct int) string {
	if pct < 0 {
		return strconv.Itoa(-pct) + "% MORE"
	}
	return strconv.Itoa(pct) + "% OFF"
}

// PriceChange returns the two-decimal percentage difference between the
// current override and a proposed replacement. ok is false when either side
// is non-positive: the update form previews nothing until both prices are
// usable.
func PriceChange(current, proposed decimal.Decimal) (pct decimal.Decimal, ok bool) {
	if !current.IsPositive() || !proposed.IsPositive() {
		return decimal.Decimal{}, false
	}
	return current.Sub(proposed).Div(current).Mul(hundred).Round(2), true
}

// ChangeLabel renders a PriceChange result with two decimals, e.g.
// "50.00% OFF" or "20.00% MORE".
func ChangeLabel(pct decimal.Decimal) string {
	if pct.IsNegative() {
		return pct.Neg().StringFixed(2) + "% MORE"
	}
	return pct.StringFixed(2) + "% OFF"
}
