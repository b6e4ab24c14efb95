package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/model"
)

// CategoryList lists categories. Deleting a category that still has
// sub-categories is left to the backend to accept or refuse.
type CategoryList struct {
	categories CategoryAPI
	logger     logger.Logger

	mu   sync.Mutex
	cats []model.Category
	status
}

// NewCategoryList creates an empty category list.
func NewCategoryList(categories CategoryAPI, opts ...Option) *CategoryList {
	o := buildOptions(opts)
	return &CategoryList{categories: categories, logger: o.logger}
}

// Load fetches every category.
func (l *CategoryList) Load(ctx context.Context) error {
	l.mu.Lock()
	l.start()
	l.mu.Unlock()

	cats, err := l.categories.List(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		return l.fail(l.logger, "catalog.CategoryList.Load", MsgLoadCategories, err)
	}
	l.cats = cats
	l.loading = false
	return nil
}

// Delete removes the category after confirmation.
func (l *CategoryList) Delete(ctx context.Context, id int64, c Confirmer) error {
	if !confirmed(ctx, c, "Are you sure you want to delete this category?") {
		return core.ErrCanceledByUser
	}
	err := l.categories.Delete(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		return l.fail(l.logger, "catalog.CategoryList.Delete", MsgDeleteCategory, err)
	}
	l.cats = without(l.cats, func(c model.Category) bool { return c.ID == id })
	return nil
}

// Categories returns the loaded categories.
func (l *CategoryList) Categories() []model.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.cats)
}

// Loading reports whether a request is in flight.
func (l *CategoryList) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// ErrorMessage is the last user-facing error, or "".
func (l *CategoryList) ErrorMessage() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.message
}

// SubCategoryList lists sub-categories with a local text filter.
type SubCategoryList struct {
	subCategories SubCategoryAPI
	logger        logger.Logger

	mu      sync.Mutex
	all     []model.SubCategory
	visible []model.SubCategory
	term    string
	status
}

// NewSubCategoryList creates an empty sub-category list.
func NewSubCategoryList(subCategories SubCategoryAPI, opts ...Option) *SubCategoryList {
	o := buildOptions(opts)
	return &SubCategoryList{subCategories: subCategories, logger: o.logger}
}

// Load fetches every sub-category.
func (l *SubCategoryList) Load(ctx context.Context) error {
	l.mu.Lock()
	l.start()
	l.mu.Unlock()

	subs, err := l.subCategories.List(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		return l.fail(l.logger, "catalog.SubCategoryList.Load", MsgLoadSubCategories, err)
	}
	l.all = subs
	l.visible = FilterSubCategories(subs, l.term)
	l.loading = false
	return nil
}

// Filter shows the sub-categories matching term.
func (l *SubCategoryList) Filter(term string) []model.SubCategory {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.term = term
	l.visible = FilterSubCategories(l.all, term)
	return clone(l.visible)
}

// Delete removes sc after confirmation and re-applies the current filter.
func (l *SubCategoryList) Delete(ctx context.Context, sc model.SubCategory, c Confirmer) error {
	prompt := fmt.Sprintf("Are you sure you want to delete %q? This action cannot be undone.", sc.Name)
	if !confirmed(ctx, c, prompt) {
		return core.ErrCanceledByUser
	}
	err := l.subCategories.Delete(ctx, sc.ID)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		return l.fail(l.logger, "catalog.SubCategoryList.Delete", MsgDeleteSubCategory, err)
	}
	l.all = without(l.all, func(x model.SubCategory) bool { return x.ID == sc.ID })
	l.visible = FilterSubCategories(l.all, l.term)
	return nil
}

// SubCategories returns the visible sub-categories.
func (l *SubCategoryList) SubCategories() []model.SubCategory {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.visible)
}

// Counts returns the number of loaded and of visible sub-categories.
func (l *SubCategoryList) Counts() (total, shown int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.all), len(l.visible)
}

// Loading reports whether a request is in flight.
func (l *SubCategoryList) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// ErrorMessage is the last user-facing error, or "".
func (l *SubCategoryList) ErrorMessage() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.message
}
