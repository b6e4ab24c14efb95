package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/theAriful7/storefront/pkg/model"
)

var hundred = decimal.NewFromInt(100)

// DiscountedPrice takes discountPercent off price. A zero discount returns
// the price unchanged.
func DiscountedPrice(price, discountPercent float64) decimal.Decimal {
	p := decimal.NewFromFloat(price)
	if discountPercent == 0 {
		return p
	}
	off := p.Mul(decimal.NewFromFloat(discountPercent)).Div(hundred)
	return p.Sub(off)
}

// SalePrice is the product's discounted price.
func SalePrice(p model.Product) decimal.Decimal {
	return DiscountedPrice(p.Price, p.Discount)
}

// LineTotal is pricePerItem times qty.
func LineTotal(pricePerItem float64, qty int) decimal.Decimal {
	return decimal.NewFromFloat(pricePerItem).Mul(decimal.NewFromInt(int64(qty)))
}

// FormatMoney renders an amount with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}
