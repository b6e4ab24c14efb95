package catalog

import (
	"strings"

	"github.com/theAriful7/storefront/pkg/model"
)

// All disables a status, category or stock selection.
const All = "ALL"

// Default price band of the product list.
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 10000
)

// ProductFilter is the client-side filter of the product list. Every
// predicate is independent, so the order they are applied in does not
// matter and applying a filter to its own output changes nothing.
type ProductFilter struct {
	CategoryID    int64
	SubCategoryID int64
	Status        string // All, "" or a model.ProductStatus
	MinPrice      float64
	MaxPrice      float64 // zero means no upper bound
	Brand         string  // case-insensitive substring
}

// DefaultProductFilter matches every product priced within the default band.
func DefaultProductFilter() ProductFilter {
	return ProductFilter{Status: All, MinPrice: DefaultMinPrice, MaxPrice: DefaultMaxPrice}
}

// Apply returns the products that pass f. Products carry only category and
// sub-category names, so the selected ids are resolved through categories
// and subCategories; an id that is not in those lists matches nothing.
func (f ProductFilter) Apply(products []model.Product, categories []model.Category, subCategories []model.SubCategory) []model.Product {
	categoryName, categoryKnown := "", false
	if f.CategoryID != 0 {
		for _, c := range categories {
			if c.ID == f.CategoryID {
				categoryName, categoryKnown = c.Name, true
				break
			}
		}
	}
	subCategoryName, subCategoryKnown := "", false
	if f.SubCategoryID != 0 {
		for _, sc := range subCategories {
			if sc.ID == f.SubCategoryID {
				subCategoryName, subCategoryKnown = sc.Name, true
				break
			}
		}
	}
	brand := strings.ToLower(strings.TrimSpace(f.Brand))

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if f.CategoryID != 0 && (!categoryKnown || p.CategoryName == "" || p.CategoryName != categoryName) {
			continue
		}
		if f.SubCategoryID != 0 && (!subCategoryKnown || p.SubCategoryName == "" || p.SubCategoryName != subCategoryName) {
			continue
		}
		if !statusMatches(f.Status, p.Status) {
			continue
		}
		if p.Price < f.MinPrice || (f.MaxPrice > 0 && p.Price > f.MaxPrice) {
			continue
		}
		if brand != "" && !strings.Contains(strings.ToLower(p.Brand), brand) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func statusMatches(selected string, status model.ProductStatus) bool {
	if selected == "" || selected == All {
		return true
	}
	return string(status) == selected
}

// StockBand groups products by how much stock is left.
type StockBand string

const (
	StockAll   StockBand = All
	InStock    StockBand = "IN_STOCK"     // more than LowStockLimit
	LowStock   StockBand = "LOW_STOCK"    // 1 to LowStockLimit
	OutOfStock StockBand = "OUT_OF_STOCK" // 0
)

// LowStockLimit is the highest stock still reported as low.
const LowStockLimit = 10

// StockBandOf classifies a stock level.
func StockBandOf(stock int) StockBand {
	switch {
	case stock > LowStockLimit:
		return InStock
	case stock > 0:
		return LowStock
	default:
		return OutOfStock
	}
}

// Matches reports whether stock falls in b. StockAll and the empty band
// match everything.
func (b StockBand) Matches(stock int) bool {
	switch b {
	case "", StockAll:
		return true
	case OutOfStock:
		return stock == 0
	}
	return StockBandOf(stock) == b
}

// VendorFilter is the client-side filter of a vendor's own products.
type VendorFilter struct {
	Status   string // All, "" or a model.ProductStatus
	Category string // category name, All or ""
	Stock    StockBand
	Term     string // matched against name, description, brand and sku
}

// DefaultVendorFilter matches every product.
func DefaultVendorFilter() VendorFilter {
	return VendorFilter{Status: All, Category: All, Stock: StockAll}
}

// Apply returns the products that pass f.
func (f VendorFilter) Apply(products []model.Product) []model.Product {
	term := strings.ToLower(strings.TrimSpace(f.Term))
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if !statusMatches(f.Status, p.Status) {
			continue
		}
		if f.Category != "" && f.Category != All && p.CategoryName != f.Category {
			continue
		}
		if !f.Stock.Matches(p.Stock) {
			continue
		}
		if term != "" && !MatchesTerm(p, term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// MatchesTerm reports whether the lower-cased term occurs in the product's
// name, description, brand or sku.
func MatchesTerm(p model.Product, term string) bool {
	for _, field := range []string{p.Name, p.Description, p.Brand, p.SKU} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// FilterSubCategories matches term case-insensitively against the name,
// category name and description. An empty term returns everything.
func FilterSubCategories(subCategories []model.SubCategory, term string) []model.SubCategory {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]model.SubCategory, 0, len(subCategories))
	for _, sc := range subCategories {
		if term == "" ||
			strings.Contains(strings.ToLower(sc.Name), term) ||
			strings.Contains(strings.ToLower(sc.CategoryName), term) ||
			strings.Contains(strings.ToLower(sc.Description), term) {
			out = append(out, sc)
		}
	}
	return out
}
