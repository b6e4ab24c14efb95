package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/theAriful7/storefront/pkg/model"
)

// ProductClient manages /api/products.
type ProductClient struct {
	c *Client
}

const productsPath = "/api/products"

// ProductQuery are the server-side filters of Filter. Zero fields are not
// sent.
type ProductQuery struct {
	CategoryID    int64
	SubCategoryID int64
	MinPrice      float64
	MaxPrice      float64
	Brand         string
	Status        model.ProductStatus
	Limit         int
}

// Values encodes q as query parameters.
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	if q.CategoryID != 0 {
		v.Set("categoryId", strconv.FormatInt(q.CategoryID, 10))
	}
	if q.SubCategoryID != 0 {
		v.Set("subCategoryId", strconv.FormatInt(q.SubCategoryID, 10))
	}
	if q.MinPrice != 0 {
		v.Set("minPrice", strconv.FormatFloat(q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != 0 {
		v.Set("maxPrice", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	if q.Brand != "" {
		v.Set("brand", q.Brand)
	}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func (pc *ProductClient) list(ctx context.Context, path string, query url.Values) ([]model.Product, error) {
	var out []model.Product
	err := pc.c.do(ctx, request{resource: "products", method: http.MethodGet, path: path, query: query}, &out)
	return out, err
}

func (pc *ProductClient) one(ctx context.Context, method, path string, query url.Values, body interface{}) (*model.Product, error) {
	var out model.Product
	if err := pc.c.do(ctx, request{resource: "products", method: method, path: path, query: query, body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns every product.
func (pc *ProductClient) List(ctx context.Context) ([]model.Product, error) {
	return pc.list(ctx, productsPath, nil)
}

// Get returns one product.
func (pc *ProductClient) Get(ctx context.Context, id int64) (*model.Product, error) {
	return pc.one(ctx, http.MethodGet, productsPath+"/"+pathID(id), nil, nil)
}

// ListByVendor returns the products of one vendor.
func (pc *ProductClient) ListByVendor(ctx context.Context, vendorID int64) ([]model.Product, error) {
	return pc.list(ctx, productsPath+"/vendor/"+pathID(vendorID), nil)
}

// ListByCategory returns the products of one category.
func (pc *ProductClient) ListByCategory(ctx context.Context, categoryID int64) ([]model.Product, error) {
	return pc.list(ctx, productsPath+"/category/"+pathID(categoryID), nil)
}

// ListBySubCategory returns the products of one sub-category.
func (pc *ProductClient) ListBySubCategory(ctx context.Context, subCategoryID int64) ([]model.Product, error) {
	return pc.list(ctx, productsPath+"/sub-category/"+pathID(subCategoryID), nil)
}

// ListByStatus returns the products with one status.
func (pc *ProductClient) ListByStatus(ctx context.Context, status model.ProductStatus) ([]model.Product, error) {
	return pc.list(ctx, productsPath+"/status/"+url.PathEscape(string(status)), nil)
}

// Create creates a product owned by vendorID.
func (pc *ProductClient) Create(ctx context.Context, req model.ProductRequest, vendorID int64) (*model.Product, error) {
	return pc.one(ctx, http.MethodPost, productsPath+"/vendor/"+pathID(vendorID), nil, req)
}

// Update replaces a product owned by vendorID.
func (pc *ProductClient) Update(ctx context.Context, id int64, req model.ProductRequest, vendorID int64) (*model.Product, error) {
	return pc.one(ctx, http.MethodPut, productsPath+"/"+pathID(id)+"/vendor/"+pathID(vendorID), nil, req)
}

// Delete deletes a product owned by vendorID.
func (pc *ProductClient) Delete(ctx context.Context, id, vendorID int64) error {
	return pc.c.do(ctx, request{
		resource: "products",
		method:   http.MethodDelete,
		path:     productsPath + "/" + pathID(id) + "/vendor/" + pathID(vendorID),
	}, nil)
}

// ChangeStatus moves a product to status (admin moderation).
func (pc *ProductClient) ChangeStatus(ctx context.Context, id int64, status model.ProductStatus) (*model.Product, error) {
	return pc.one(ctx, http.MethodPatch, productsPath+"/"+pathID(id)+"/status",
		url.Values{"status": {string(status)}}, struct{}{})
}

// Search runs the backend full-text search.
func (pc *ProductClient) Search(ctx context.Context, keyword string) ([]model.Product, error) {
	return pc.list(ctx, productsPath+"/search", url.Values{"keyword": {keyword}})
}

// Filter runs the backend filter endpoint.
func (pc *ProductClient) Filter(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	return pc.list(ctx, productsPath+"/filter", q.Values())
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		limit = 8
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}

// Trending returns the trending rail.
func (pc *ProductClient) Trending(ctx context.Context, limit int) ([]model.Product, error) {
	return pc.list(ctx, productsPath+"/home/trending", limitQuery(limit))
}

// BestSellers returns the best sellers rail.
func (pc *ProductClient) BestSellers(ctx context.Context, limit int) ([]model.Product, error) {
	return pc.list(ctx, productsPath+"/home/bestsellers", limitQuery(limit))
}

// Featured returns the featured rail.
func (pc *ProductClient) Featured(ctx context.Context, limit int) ([]model.Product, error) {
	return pc.list(ctx, productsPath+"/home/featured", limitQuery(limit))
}

// Home returns all three home page rails in one call.
func (pc *ProductClient) Home(ctx context.Context, limits model.HomeLimits) (*model.HomeProducts, error) {
	var out model.HomeProducts
	err := pc.c.do(ctx, request{
		resource: "products",
		method:   http.MethodGet,
		path:     productsPath + "/home/all",
		query: url.Values{
			"trendingLimit":    {strconv.Itoa(limits.Trending)},
			"bestsellersLimit": {strconv.Itoa(limits.BestSellers)},
			"featuredLimit":    {strconv.Itoa(limits.Featured)},
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
