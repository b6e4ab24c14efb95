package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/internal/convert"
	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/model"
	"github.com/theAriful7/storefront/pkg/principal"
)

// VendorProductList is the current vendor's product list.
type VendorProductList struct {
	products  ProductAPI
	principal principal.Provider
	logger    logger.Logger

	mu      sync.Mutex
	all     []model.Product
	visible []model.Product
	filter  VendorFilter
	status
}

// NewVendorProductList creates an empty list for the vendor named by p.
func NewVendorProductList(products ProductAPI, p principal.Provider, opts ...Option) *VendorProductList {
	o := buildOptions(opts)
	return &VendorProductList{
		products:  products,
		principal: p,
		logger:    o.logger,
		filter:    DefaultVendorFilter(),
	}
}

// Load fetches the vendor's products.
func (l *VendorProductList) Load(ctx context.Context) error {
	l.mu.Lock()
	l.start()
	l.mu.Unlock()

	vendorID, err := l.principal.VendorID(ctx)
	if err != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.fail(l.logger, "catalog.VendorProductList.Load", MsgLoadProducts, err)
	}
	products, err := l.products.ListByVendor(ctx, vendorID)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		return l.fail(l.logger, "catalog.VendorProductList.Load", MsgLoadProducts, err)
	}
	l.all = products
	l.visible = clone(products)
	l.loading = false
	return nil
}

// ApplyFilters replaces the filter and recomputes the visible products.
func (l *VendorProductList) ApplyFilters(f VendorFilter) []model.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filter = f
	l.visible = f.Apply(l.all)
	return clone(l.visible)
}

// Search asks the backend for term and keeps only results that belong to
// this vendor. A blank term re-applies the local filters.
func (l *VendorProductList) Search(ctx context.Context, term string) error {
	l.mu.Lock()
	l.filter.Term = term
	if strings.TrimSpace(term) == "" {
		l.visible = l.filter.Apply(l.all)
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()

	found, err := l.products.Search(ctx, term)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		return l.fail(l.logger, "catalog.VendorProductList.Search", MsgSearchProducts, err)
	}
	own := make(map[int64]bool, len(l.all))
	for _, p := range l.all {
		own[p.ID] = true
	}
	l.visible = without(found, func(p model.Product) bool { return !own[p.ID] })
	return nil
}

// Reset clears every filter.
func (l *VendorProductList) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filter = DefaultVendorFilter()
	l.visible = clone(l.all)
}

// Delete removes one of the vendor's products after confirmation.
func (l *VendorProductList) Delete(ctx context.Context, productID int64, c Confirmer) error {
	if !confirmed(ctx, c, "Are you sure you want to delete this product? This action cannot be undone.") {
		return core.ErrCanceledByUser
	}
	vendorID, err := l.principal.VendorID(ctx)
	if err == nil {
		err = l.products.Delete(ctx, productID, vendorID)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		return l.fail(l.logger, "catalog.VendorProductList.Delete", MsgDeleteProduct, err)
	}
	drop := func(p model.Product) bool { return p.ID == productID }
	l.all = without(l.all, drop)
	l.visible = without(l.visible, drop)
	return nil
}

// SetStock re-saves one of the vendor's products with a new stock level.
// Every other field is sent back as fetched.
func (l *VendorProductList) SetStock(ctx context.Context, productID int64, stock int) (*model.Product, error) {
	var saved *model.Product
	vendorID, err := l.principal.VendorID(ctx)
	if err == nil && stock < 0 {
		err = fmt.Errorf("stock %d: %w", stock, core.ErrValidation)
	}
	if err == nil {
		var p *model.Product
		if p, err = l.products.Get(ctx, productID); err == nil {
			req := convert.ProductToRequest(*p)
			req.Stock = stock
			saved, err = l.products.Update(ctx, productID, req, vendorID)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		return nil, l.fail(l.logger, "catalog.VendorProductList.SetStock", MsgUpdateStock, err)
	}
	swap := func(list []model.Product) {
		for i := range list {
			if list[i].ID == productID {
				list[i] = *saved
			}
		}
	}
	swap(l.all)
	swap(l.visible)
	return saved, nil
}

// Categories returns the distinct category names of the loaded products,
// sorted.
func (l *VendorProductList) Categories() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	seen := make(map[string]bool)
	var names []string
	for _, p := range l.all {
		if p.CategoryName != "" && !seen[p.CategoryName] {
			seen[p.CategoryName] = true
			names = append(names, p.CategoryName)
		}
	}
	sort.Strings(names)
	return names
}

// Products returns the products passing the current filter.
func (l *VendorProductList) Products() []model.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.visible)
}

// All returns every loaded product, ignoring filters.
func (l *VendorProductList) All() []model.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.all)
}

// Filter returns the filter last applied.
func (l *VendorProductList) Filter() VendorFilter {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

// Loading reports whether a request is in flight.
func (l *VendorProductList) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// ErrorMessage is the last user-facing error, or "".
func (l *VendorProductList) ErrorMessage() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.message
}
