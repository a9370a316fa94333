package billing

import "github.com/shopspring/decimal"

var (
	// DiscountThreshold is the cart value from which FlatDiscount applies.
	DiscountThreshold = decimal.NewFromInt(10000)
	FlatDiscount      = decimal.NewFromInt(500)
)

// ApplyDiscount returns the discount and the amount payable for cartValue.
func ApplyDiscount(cartValue decimal.Decimal) (discount, subTotal decimal.Decimal) {
	if cartValue.GreaterThanOrEqual(DiscountThreshold) {
		return FlatDiscount, cartValue.Sub(FlatDiscount)
	}
	return decimal.Zero, cartValue
}
