package money

import "github.com/shopspring/decimal"

// Round2 rounds an amount to 2 decimal places using half-up rounding.
// All currency amounts in the system pass through here before persisting.
func Round2(amount float64) float64 {
	out, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return out
}

// Share computes one member's rounded slice of a total:
// round2(part / whole * total). whole must be non-zero.
func Share(part, whole, total float64) float64 {
	share := decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(decimal.NewFromFloat(total))
	out, _ := share.Round(2).Float64()
	return out
}

// Mul multiplies two amounts and rounds the result to 2 decimals
func Mul(amount, factor float64) float64 {
	out, _ := decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(factor)).
		Round(2).Float64()
	return out
}
