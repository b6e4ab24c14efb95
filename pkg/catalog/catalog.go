package catalog

import (
	"context"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/model"
)

// ProductAPI is the product backend used by the list controllers.
// *api.ProductClient implements it.
type ProductAPI interface {
	List(ctx context.Context) ([]model.Product, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]model.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error)
	ListByStatus(ctx context.Context, status model.ProductStatus) ([]model.Product, error)
	Search(ctx context.Context, keyword string) ([]model.Product, error)
	Get(ctx context.Context, id int64) (*model.Product, error)
	Update(ctx context.Context, id int64, req model.ProductRequest, vendorID int64) (*model.Product, error)
	Delete(ctx context.Context, id, vendorID int64) error
	Home(ctx context.Context, limits model.HomeLimits) (*model.HomeProducts, error)
}

// CategoryAPI is implemented by *api.CategoryClient.
type CategoryAPI interface {
	List(ctx context.Context) ([]model.Category, error)
	Delete(ctx context.Context, id int64) error
}

// SubCategoryAPI is implemented by *api.SubCategoryClient.
type SubCategoryAPI interface {
	List(ctx context.Context) ([]model.SubCategory, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]model.SubCategory, error)
	Delete(ctx context.Context, id int64) error
}

// User-facing messages. Every backend failure is reduced to one of these.
const (
	MsgLoadProducts      = "Error loading products"
	MsgSearchProducts    = "Error searching products"
	MsgFilterProducts    = "Error filtering products"
	MsgDeleteProduct     = "Error deleting product"
	MsgUpdateStock       = "Error updating stock"
	MsgLoadCategories    = "Error loading categories"
	MsgDeleteCategory    = "Error deleting category"
	MsgLoadSubCategories = "Error loading subcategories"
	MsgDeleteSubCategory = "Error deleting subcategory"
	MsgLoadHome          = "Failed to load products"
)

// Option configures a list controller.
type Option func(*options)

type options struct {
	logger logger.Logger
}

// WithLogger sets the logger used to record backend failures.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.logger = logger.OrNoOp(l)
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logger.NoOpLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// status is the loading flag and flattened error message shared by every
// controller. Callers hold the controller's lock.
type status struct {
	loading bool
	message string
}

// fail records msg, logs err and returns it wrapped for the caller.
func (s *status) fail(log logger.Logger, op, msg string, err error) error {
	s.loading = false
	s.message = msg
	log.Error(msg, "op", op, "error", err)
	return &core.StoreError{Op: op, Kind: "catalog", Message: msg, Err: err}
}

func (s *status) start() {
	s.loading = true
	s.message = ""
}

func without[T any](items []T, drop func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !drop(item) {
			out = append(out, item)
		}
	}
	return out
}

func clone[T any](items []T) []T {
	return append([]T(nil), items...)
}
