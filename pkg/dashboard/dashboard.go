package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/model"
	"github.com/theAriful7/storefront/pkg/principal"
)

// ProductAPI is implemented by *api.ProductClient.
type ProductAPI interface {
	List(ctx context.Context) ([]model.Product, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]model.Product, error)
}

// OrderAPI is implemented by *api.OrderClient.
type OrderAPI interface {
	List(ctx context.Context) ([]model.Order, error)
}

// ReviewAPI is implemented by *api.ReviewClient.
type ReviewAPI interface {
	List(ctx context.Context) ([]model.Review, error)
}

// CategoryAPI is implemented by *api.CategoryClient.
type CategoryAPI interface {
	List(ctx context.Context) ([]model.Category, error)
}

// SubCategoryAPI is implemented by *api.SubCategoryClient.
type SubCategoryAPI interface {
	List(ctx context.Context) ([]model.SubCategory, error)
}

const (
	MsgLoadProducts = "Error loading products"
	MsgLoadSummary  = "Error loading dashboard"
)

// Option configures a dashboard.
type Option func(*options)

type options struct {
	logger  logger.Logger
	now     func() time.Time
	reviews ReviewAPI
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.logger = logger.OrNoOp(l)
	}
}

// WithClock fixes the time used for "this month".
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithReviews enables the rating figures of the vendor dashboard.
func WithReviews(r ReviewAPI) Option {
	return func(o *options) {
		o.reviews = r
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logger.NoOpLogger{}, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// VendorDashboard loads the current vendor's figures.
type VendorDashboard struct {
	productAPI ProductAPI
	orderAPI   OrderAPI
	principal  principal.Provider
	opts       options

	mu       sync.Mutex
	stats    Stats
	products []model.Product
	loading  bool
	message  string
}

// NewVendorDashboard creates a dashboard for the vendor named by p. Nothing is fetched until Load.
func NewVendorDashboard(products ProductAPI, orders OrderAPI, p principal.Provider, opts ...Option) *VendorDashboard {
	return &VendorDashboard{
		productAPI: products,
		orderAPI:   orders,
		principal:  p,
		opts:       buildOptions(opts),
	}
}

// Load fetches the vendor's products, then every order, then the reviews
// when enabled. A product failure stops the load. Order and review failures
// are only logged; the figures are computed from what did load.
func (d *VendorDashboard) Load(ctx context.Context) error {
	const op = "dashboard.VendorDashboard.Load"
	log := d.opts.logger

	d.mu.Lock()
	d.loading = true
	d.message = ""
	d.mu.Unlock()

	vendorID, err := d.principal.VendorID(ctx)
	if err == nil {
		var products []model.Product
		if products, err = d.productAPI.ListByVendor(ctx, vendorID); err == nil {
			d.mu.Lock()
			d.products = products
			d.mu.Unlock()
		}
	}
	if err != nil {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.loading = false
		d.message = MsgLoadProducts
		log.Error("Error loading vendor products", "op", op, "error", err)
		return &core.StoreError{Op: op, Kind: "dashboard", Message: MsgLoadProducts, Err: err}
	}

	orders, err := d.orderAPI.List(ctx)
	if err != nil {
		log.Error("Error loading orders", "op", op, "error", err)
		orders = nil
	}

	var reviews []model.Review
	if d.opts.reviews != nil {
		if reviews, err = d.opts.reviews.List(ctx); err != nil {
			log.Warn("Error loading reviews", "op", op, "error", err)
			reviews = nil
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stats = ComputeVendorStats(d.products, orders, reviews, d.opts.now())
	d.loading = false
	log.Debug("vendor dashboard loaded",
		"vendor_id", vendorID,
		"products", d.stats.TotalProducts,
		"orders", d.stats.TotalOrders,
	)
	return nil
}

// Stats returns the last computed figures.
func (d *VendorDashboard) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.stats
	s.RecentOrders = append([]RecentOrder(nil), s.RecentOrders...)
	return s
}

// Products returns the vendor's products from the last load.
func (d *VendorDashboard) Products() []model.Product {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Product(nil), d.products...)
}

// Loading reports whether Load is running.
func (d *VendorDashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// ErrorMessage is the last user-facing error, or "".
func (d *VendorDashboard) ErrorMessage() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.message
}

// AdminDashboard loads the catalogue-wide summary.
type AdminDashboard struct {
	products      ProductAPI
	categories    CategoryAPI
	subCategories SubCategoryAPI
	opts          options

	mu      sync.Mutex
	summary AdminSummary
	loading bool
	message string
}

// NewAdminDashboard creates an empty admin summary.
func NewAdminDashboard(products ProductAPI, categories CategoryAPI, subCategories SubCategoryAPI, opts ...Option) *AdminDashboard {
	return &AdminDashboard{
		products:      products,
		categories:    categories,
		subCategories: subCategories,
		opts:          buildOptions(opts),
	}
}

// Load fetches every product, category and sub-category. Each failure is
// logged and leaves its count at zero; Load returns the first one.
func (d *AdminDashboard) Load(ctx context.Context) error {
	const op = "dashboard.AdminDashboard.Load"
	log := d.opts.logger

	d.mu.Lock()
	d.loading = true
	d.message = ""
	d.mu.Unlock()

	var first error
	note := func(what string, err error) {
		if err == nil {
			return
		}
		log.Error("Error loading "+what, "op", op, "error", err)
		if first == nil {
			first = err
		}
	}

	products, err := d.products.List(ctx)
	note("products", err)
	categories, err := d.categories.List(ctx)
	note("categories", err)
	subs, err := d.subCategories.List(ctx)
	note("subcategories", err)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.summary = ComputeAdminSummary(products, categories, subs)
	d.loading = false
	if first != nil {
		d.message = MsgLoadSummary
		return &core.StoreError{Op: op, Kind: "dashboard", Message: MsgLoadSummary, Err: first}
	}
	return nil
}

// Summary returns the last computed summary.
func (d *AdminDashboard) Summary() AdminSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.summary
	s.ProductsByStatus = make(map[model.ProductStatus]int, len(d.summary.ProductsByStatus))
	for k, v := range d.summary.ProductsByStatus {
		s.ProductsByStatus[k] = v
	}
	return s
}

// Loading reports whether Load is running.
func (d *AdminDashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// ErrorMessage is the last user-facing error, or "".
func (d *AdminDashboard) ErrorMessage() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.message
}
