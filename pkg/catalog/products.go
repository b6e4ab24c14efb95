package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/model"
)

// ProductList is the admin product list: every product fetched once, then
// filtered locally. Search, status and category drill-down go to the
// backend and replace the visible set directly.
type ProductList struct {
	products      ProductAPI
	categories    CategoryAPI
	subCategories SubCategoryAPI
	logger        logger.Logger

	mu         sync.Mutex
	all        []model.Product
	visible    []model.Product
	cats       []model.Category
	subCats    []model.SubCategory
	filter     ProductFilter
	searchTerm string
	status
}

// NewProductList creates an empty list. Call Load to fetch.
func NewProductList(products ProductAPI, categories CategoryAPI, subCategories SubCategoryAPI, opts ...Option) *ProductList {
	o := buildOptions(opts)
	return &ProductList{
		products:      products,
		categories:    categories,
		subCategories: subCategories,
		logger:        o.logger,
		filter:        DefaultProductFilter(),
	}
}

// Load fetches all products and the category list. A category failure is
// only logged; the category filter then matches nothing.
func (l *ProductList) Load(ctx context.Context) error {
	l.mu.Lock()
	l.start()
	l.mu.Unlock()

	products, err := l.products.List(ctx)
	if err != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.fail(l.logger, "catalog.ProductList.Load", MsgLoadProducts, err)
	}

	cats, catErr := l.categories.List(ctx)
	if catErr != nil {
		l.logger.Error("Error loading categories", "error", catErr)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.all = products
	l.visible = clone(products)
	if catErr == nil {
		l.cats = cats
	}
	l.loading = false
	return nil
}

// SelectCategory sets the category filter, reloads the sub-categories of
// the new category, clears the sub-category selection and re-applies the
// filters. An id of zero clears the category.
func (l *ProductList) SelectCategory(ctx context.Context, categoryID int64) error {
	var subs []model.SubCategory
	if categoryID != 0 {
		var err error
		subs, err = l.subCategories.ListByCategory(ctx, categoryID)
		if err != nil {
			l.logger.Error("Error loading sub-categories", "category_id", categoryID, "error", err)
			return core.NewStoreError("catalog.ProductList.SelectCategory", "catalog", err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.subCats = subs
	l.filter.CategoryID = categoryID
	l.filter.SubCategoryID = 0
	l.applyLocked()
	return nil
}

// ApplyFilters replaces the filter and recomputes the visible products
// from the full list.
func (l *ProductList) ApplyFilters(f ProductFilter) []model.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filter = f
	l.applyLocked()
	return clone(l.visible)
}

func (l *ProductList) applyLocked() {
	l.visible = l.filter.Apply(l.all, l.cats, l.subCats)
}

// Search asks the backend for term. A blank term falls back to the local
// filters.
func (l *ProductList) Search(ctx context.Context, term string) error {
	l.mu.Lock()
	l.searchTerm = term
	if strings.TrimSpace(term) == "" {
		l.applyLocked()
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	found, err := l.products.Search(ctx, term)
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		return l.fail(l.logger, "catalog.ProductList.Search", MsgSearchProducts, err)
	}
	l.visible = found
	return nil
}

// FilterByStatus shows the backend's products with status. All re-applies
// the local filters instead.
func (l *ProductList) FilterByStatus(ctx context.Context, status string) error {
	l.mu.Lock()
	l.filter.Status = status
	if status == "" || status == All {
		l.applyLocked()
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	found, err := l.products.ListByStatus(ctx, model.ProductStatus(status))
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		return l.fail(l.logger, "catalog.ProductList.FilterByStatus", MsgFilterProducts, err)
	}
	l.visible = found
	return nil
}

// DrillDownCategory shows the backend's products of one category.
func (l *ProductList) DrillDownCategory(ctx context.Context, categoryID int64) error {
	found, err := l.products.ListByCategory(ctx, categoryID)
	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		return l.fail(l.logger, "catalog.ProductList.DrillDownCategory", MsgFilterProducts, err)
	}
	l.visible = found
	return nil
}

// Reset restores the default filters and shows every loaded product.
func (l *ProductList) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.searchTerm = ""
	l.filter = DefaultProductFilter()
	l.subCats = nil
	l.visible = clone(l.all)
}

// Delete removes p after confirmation. The request names p's vendor.
func (l *ProductList) Delete(ctx context.Context, p model.Product, c Confirmer) error {
	if !confirmed(ctx, c, "Are you sure you want to delete this product?") {
		return core.ErrCanceledByUser
	}
	if err := l.products.Delete(ctx, p.ID, p.VendorID); err != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.fail(l.logger, "catalog.ProductList.Delete", MsgDeleteProduct, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	drop := func(x model.Product) bool { return x.ID == p.ID }
	l.all = without(l.all, drop)
	l.visible = without(l.visible, drop)
	return nil
}

// Products returns the visible products.
func (l *ProductList) Products() []model.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.visible)
}

// All returns every loaded product.
func (l *ProductList) All() []model.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.all)
}

// Categories returns the category options loaded with the list.
func (l *ProductList) Categories() []model.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.cats)
}

// SubCategories returns the sub-categories of the selected category.
func (l *ProductList) SubCategories() []model.SubCategory {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.subCats)
}

// Filter returns the current local filter.
func (l *ProductList) Filter() ProductFilter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

// SearchTerm is the last keyword searched, or "".
func (l *ProductList) SearchTerm() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.searchTerm
}

// Loading reports whether Load is in flight.
func (l *ProductList) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// ErrorMessage is the last user-facing error, or "".
func (l *ProductList) ErrorMessage() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.message
}
