package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/theAriful7/storefront/pkg/model"
)

// CategoryClient manages /api/categories.
type CategoryClient struct {
	c *Client
}

const categoriesPath = "/api/categories"

// List returns all categories.
func (cc *CategoryClient) List(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := cc.c.do(ctx, request{resource: "categories", method: http.MethodGet, path: categoriesPath}, &out)
	return out, err
}

// Get returns one category.
func (cc *CategoryClient) Get(ctx context.Context, id int64) (*model.Category, error) {
	var out model.Category
	if err := cc.c.do(ctx, request{resource: "categories", method: http.MethodGet, path: categoriesPath + "/" + pathID(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create creates a category.
func (cc *CategoryClient) Create(ctx context.Context, category model.Category) (*model.Category, error) {
	var out model.Category
	if err := cc.c.do(ctx, request{resource: "categories", method: http.MethodPost, path: categoriesPath, body: category}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a category.
func (cc *CategoryClient) Update(ctx context.Context, id int64, category model.Category) (*model.Category, error) {
	var out model.Category
	if err := cc.c.do(ctx, request{resource: "categories", method: http.MethodPut, path: categoriesPath + "/" + pathID(id), body: category}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete deletes a category. No check for referencing sub-categories or
// products is made; the backend decides.
func (cc *CategoryClient) Delete(ctx context.Context, id int64) error {
	return cc.c.do(ctx, request{resource: "categories", method: http.MethodDelete, path: categoriesPath + "/" + pathID(id)}, nil)
}

// SubCategoryClient manages /api/sub-categories.
type SubCategoryClient struct {
	c *Client
}

const subCategoriesPath = "/api/sub-categories"

// List returns all sub-categories.
func (sc *SubCategoryClient) List(ctx context.Context) ([]model.SubCategory, error) {
	var out []model.SubCategory
	err := sc.c.do(ctx, request{resource: "sub-categories", method: http.MethodGet, path: subCategoriesPath}, &out)
	return out, err
}

// Get returns one sub-category.
func (sc *SubCategoryClient) Get(ctx context.Context, id int64) (*model.SubCategory, error) {
	var out model.SubCategory
	if err := sc.c.do(ctx, request{resource: "sub-categories", method: http.MethodGet, path: subCategoriesPath + "/" + pathID(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByCategory returns the sub-categories of one category.
func (sc *SubCategoryClient) ListByCategory(ctx context.Context, categoryID int64) ([]model.SubCategory, error) {
	var out []model.SubCategory
	err := sc.c.do(ctx, request{resource: "sub-categories", method: http.MethodGet, path: subCategoriesPath + "/category/" + pathID(categoryID)}, &out)
	return out, err
}

// Create creates a sub-category.
func (sc *SubCategoryClient) Create(ctx context.Context, req model.SubCategoryRequest) (*model.SubCategory, error) {
	var out model.SubCategory
	if err := sc.c.do(ctx, request{resource: "sub-categories", method: http.MethodPost, path: subCategoriesPath, body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a sub-category.
func (sc *SubCategoryClient) Update(ctx context.Context, id int64, req model.SubCategoryRequest) (*model.SubCategory, error) {
	var out model.SubCategory
	if err := sc.c.do(ctx, request{resource: "sub-categories", method: http.MethodPut, path: subCategoriesPath + "/" + pathID(id), body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete deletes a sub-category.
func (sc *SubCategoryClient) Delete(ctx context.Context, id int64) error {
	return sc.c.do(ctx, request{resource: "sub-categories", method: http.MethodDelete, path: subCategoriesPath + "/" + pathID(id)}, nil)
}

// Search finds sub-categories by keyword.
func (sc *SubCategoryClient) Search(ctx context.Context, keyword string) ([]model.SubCategory, error) {
	var out []model.SubCategory
	err := sc.c.do(ctx, request{
		resource: "sub-categories",
		method:   http.MethodGet,
		path:     subCategoriesPath + "/search",
		query:    url.Values{"keyword": {keyword}},
	}, &out)
	return out, err
}
