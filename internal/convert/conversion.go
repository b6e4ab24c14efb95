// Package convert turns form input and backend records into request payloads.
package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/model"
)

// ParseFloatField parses a numeric form field. Blank input is zero.
func ParseFloatField(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number: %w", field, raw, core.ErrValidation)
	}
	return v, nil
}

// ParseIntField parses an integer form field. Blank input is zero; a
// fractional value such as "3.0" is accepted when it has no remainder.
func ParseIntField(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("%s: %q is not a whole number: %w", field, raw, core.ErrValidation)
	}
	return int(f), nil
}

// ParseIDField parses an id selected in a form. Blank input is zero.
func ParseIDField(field, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an id: %w", field, raw, core.ErrValidation)
	}
	return v, nil
}

// FormatFloat renders a number back into a form field.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatInt renders an integer back into a form field.
func FormatInt(v int) string {
	return strconv.Itoa(v)
}

// ProductToRequest converts a fetched product into an update payload.
func ProductToRequest(p model.Product) model.ProductRequest {
	specs := make([]model.ProductSpecification, len(p.Specifications))
	copy(specs, p.Specifications)
	urls := make([]string, len(p.ImageURLs))
	copy(urls, p.ImageURLs)

	return model.ProductRequest{
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Stock:          p.Stock,
		SKU:            p.SKU,
		ImageURLs:      urls,
		CategoryID:     p.CategoryID,
		SubCategoryID:  p.SubCategoryID,
		Discount:       p.Discount,
		Brand:          p.Brand,
		Status:         p.Status,
		Specifications: specs,
	}
}
