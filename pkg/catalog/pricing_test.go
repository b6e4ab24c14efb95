package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theAriful7/storefront/pkg/model"
)

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		price, discount float64
		want            string
	}{
		{499, 10, "449.1"},
		{100, 0, "100"},
		{19.99, 15, "16.9915"},
		{80, 100, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DiscountedPrice(tt.price, tt.discount).String(), "%v less %v%%", tt.price, tt.discount)
	}
}

func TestSalePrice(t *testing.T) {
	p := model.Product{Price: 200, Discount: 25}
	assert.Equal(t, "150.00", FormatMoney(SalePrice(p)))
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, "0.3", LineTotal(0.1, 3).String())
	assert.Equal(t, "0", LineTotal(12.5, 0).String())
	assert.Equal(t, "449.10", FormatMoney(LineTotal(449.1, 1)))
}
