package catalog

import (
	"context"
	"sync"

	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/model"
)

// HomeCategoryLimit is how many categories the home page shows.
const HomeCategoryLimit = 6

// HomeFeed loads the three product rails and the category strip of the
// home page.
type HomeFeed struct {
	products   ProductAPI
	categories CategoryAPI
	limits     model.HomeLimits
	logger     logger.Logger

	mu    sync.Mutex
	rails model.HomeProducts
	cats  []model.Category
	status
}

// NewHomeFeed uses model.DefaultHomeLimits when limits is zero.
func NewHomeFeed(products ProductAPI, categories CategoryAPI, limits model.HomeLimits, opts ...Option) *HomeFeed {
	if limits == (model.HomeLimits{}) {
		limits = model.DefaultHomeLimits
	}
	o := buildOptions(opts)
	return &HomeFeed{products: products, categories: categories, limits: limits, logger: o.logger}
}

// Load fetches the rails, then the categories. The categories are fetched
// even when the rails fail; a category failure is only logged.
func (h *HomeFeed) Load(ctx context.Context) error {
	h.mu.Lock()
	h.start()
	h.mu.Unlock()

	rails, railErr := h.products.Home(ctx, h.limits)
	cats, catErr := h.categories.List(ctx)
	if catErr != nil {
		h.logger.Error("Error loading categories", "error", catErr)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if catErr == nil {
		if len(cats) > HomeCategoryLimit {
			cats = cats[:HomeCategoryLimit]
		}
		h.cats = cats
	}
	if railErr != nil {
		return h.fail(h.logger, "catalog.HomeFeed.Load", MsgLoadHome, railErr)
	}
	h.rails = *rails
	h.loading = false
	return nil
}

// Trending returns the trending rail.
func (h *HomeFeed) Trending() []model.Product {
	h.mu.Lock()
	defer h.mu.Unlock()
	return clone(h.rails.Trending)
}

// BestSellers returns the best-seller rail.
func (h *HomeFeed) BestSellers() []model.Product {
	h.mu.Lock()
	defer h.mu.Unlock()
	return clone(h.rails.BestSellers)
}

// Featured returns the featured rail.
func (h *HomeFeed) Featured() []model.Product {
	h.mu.Lock()
	defer h.mu.Unlock()
	return clone(h.rails.Featured)
}

// Categories returns the categories shown on the home page.
func (h *HomeFeed) Categories() []model.Category {
	h.mu.Lock()
	defer h.mu.Unlock()
	return clone(h.cats)
}

// Loading reports whether the feed is being fetched.
func (h *HomeFeed) Loading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

// ErrorMessage is the last user-facing error, or "".
func (h *HomeFeed) ErrorMessage() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.message
}
