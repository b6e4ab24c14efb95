package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/model"
)

func TestParseFloatField(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"19.99", 19.99, false},
		{" 5 ", 5, false},
		{"-2.5", -2.5, false},
		{"abc", 0, true},
		{"1,5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseFloatField("price", tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrValidation)
				assert.Contains(t, err.Error(), "price")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIntField(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"12", 12, false},
		{"3.0", 3, false},
		{"3.5", 0, true},
		{"x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseIntField("stock", tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIDField(t *testing.T) {
	id, err := ParseIDField("categoryId", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	id, err = ParseIDField("categoryId", "")
	require.NoError(t, err)
	assert.Zero(t, id)

	_, err = ParseIDField("categoryId", "4.2")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0", FormatFloat(0))
	assert.Equal(t, "19.5", FormatFloat(19.5))
	assert.Equal(t, "7", FormatInt(7))
}

func TestProductToRequest(t *testing.T) {
	p := model.Product{
		ID:             3,
		Name:           "Lamp",
		Price:          20,
		Stock:          4,
		SKU:            "L-1",
		ImageURLs:      []string{"http://cdn/lamp.png"},
		CategoryID:     1,
		SubCategoryID:  2,
		Status:         model.StatusActive,
		Specifications: []model.ProductSpecification{{Key: "Color", Value: "Red"}},
	}

	req := ProductToRequest(p)
	assert.Equal(t, "Lamp", req.Name)
	assert.Equal(t, int64(2), req.SubCategoryID)
	assert.Equal(t, model.StatusActive, req.Status)

	req.Specifications[0].Value = "Blue"
	req.ImageURLs[0] = "changed"
	assert.Equal(t, "Red", p.Specifications[0].Value)
	assert.Equal(t, "http://cdn/lamp.png", p.ImageURLs[0])
}
