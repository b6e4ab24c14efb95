package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/internal/fakeshop"
	"github.com/theAriful7/storefront/pkg/api"
	"github.com/theAriful7/storefront/pkg/model"
	"github.com/theAriful7/storefront/pkg/principal"
)

func setupShop(t *testing.T) (*fakeshop.Server, *api.Client) {
	t.Helper()
	shop := fakeshop.New()
	srv := httptest.NewServer(shop)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	require.NoError(t, err)
	return shop, client
}

var decline = ConfirmFunc(func(context.Context, string) bool { return false })

func TestProductListLoadAndFilter(t *testing.T) {
	_, client := setupShop(t)
	ctx := context.Background()

	list := NewProductList(client.Products, client.Categories, client.SubCategories)
	require.NoError(t, list.Load(ctx))
	assert.False(t, list.Loading())
	assert.Len(t, list.All(), 6)
	assert.Len(t, list.Products(), 6)
	assert.Len(t, list.Categories(), 2)

	require.NoError(t, list.SelectCategory(ctx, 2))
	assert.Equal(t, []int64{4, 5, 6}, ids(list.Products()))
	require.Len(t, list.SubCategories(), 1)
	assert.Equal(t, "Shoes", list.SubCategories()[0].Name)
	assert.Zero(t, list.Filter().SubCategoryID)

	f := DefaultProductFilter()
	f.MinPrice, f.MaxPrice = 20, 100
	assert.Equal(t, []int64{2, 4, 6}, ids(list.ApplyFilters(f)))

	list.Reset()
	assert.Len(t, list.Products(), 6)
	assert.Equal(t, DefaultProductFilter(), list.Filter())
	assert.Empty(t, list.SubCategories())
}

func TestProductListBackendQueries(t *testing.T) {
	shop, client := setupShop(t)
	ctx := context.Background()

	list := NewProductList(client.Products, client.Categories, client.SubCategories)
	require.NoError(t, list.Load(ctx))
	shop.ResetRequests()

	require.NoError(t, list.Search(ctx, "boot"))
	assert.Equal(t, []int64{5}, ids(list.Products()))
	assert.Equal(t, "boot", list.SearchTerm())

	require.NoError(t, list.Search(ctx, "   "))
	assert.Len(t, list.Products(), 6)
	assert.Len(t, shop.RequestsTo(http.MethodGet, "/api/products/search"), 1, "blank search stays local")

	require.NoError(t, list.FilterByStatus(ctx, "ACTIVE"))
	assert.Equal(t, []int64{1, 2, 4}, ids(list.Products()))

	require.NoError(t, list.FilterByStatus(ctx, All))
	assert.Len(t, list.Products(), 6)

	require.NoError(t, list.DrillDownCategory(ctx, 1))
	assert.Equal(t, []int64{1, 2, 3}, ids(list.Products()))
}

func TestProductListLoadFailure(t *testing.T) {
	shop, client := setupShop(t)
	shop.FailNext(http.MethodGet, "/api/products", http.StatusInternalServerError)

	list := NewProductList(client.Products, client.Categories, client.SubCategories)
	err := list.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRequestFailed)
	assert.Equal(t, MsgLoadProducts, list.ErrorMessage())
	assert.False(t, list.Loading())
	assert.Empty(t, list.Products())

	var storeErr *core.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "catalog.ProductList.Load", storeErr.Op)
}

func TestProductListDelete(t *testing.T) {
	shop, client := setupShop(t)
	ctx := context.Background()

	list := NewProductList(client.Products, client.Categories, client.SubCategories)
	require.NoError(t, list.Load(ctx))
	target := list.All()[5]
	shop.ResetRequests()

	assert.ErrorIs(t, list.Delete(ctx, target, decline), core.ErrCanceledByUser)
	assert.ErrorIs(t, list.Delete(ctx, target, nil), core.ErrCanceledByUser)
	assert.Empty(t, shop.Requests())

	require.NoError(t, list.Delete(ctx, target, AlwaysConfirm))
	assert.Len(t, shop.RequestsTo(http.MethodDelete, "/api/products/6/vendor/1"), 1)
	assert.Len(t, list.All(), 5)
	assert.NotContains(t, ids(list.Products()), target.ID)
}

func TestVendorProductList(t *testing.T) {
	_, client := setupShop(t)
	ctx := context.Background()

	list := NewVendorProductList(client.Products, principal.NewStatic(1, 1))
	require.NoError(t, list.Load(ctx))
	assert.Len(t, list.All(), 6)
	assert.Equal(t, []string{"Electronics", "Fashion"}, list.Categories())

	assert.Equal(t, []int64{2, 5}, ids(list.ApplyFilters(VendorFilter{Stock: LowStock})))
	assert.Equal(t, []int64{3}, ids(list.ApplyFilters(VendorFilter{Term: "ub-1"})))

	list.Reset()
	assert.Equal(t, DefaultVendorFilter(), list.Filter())
	assert.Len(t, list.Products(), 6)
}

func TestVendorSearchKeepsOwnProducts(t *testing.T) {
	_, client := setupShop(t)
	ctx := context.Background()

	created, err := client.Products.Create(ctx, model.ProductRequest{
		Name: "Phone Case", Description: "Protective case", Price: 15, Stock: 100, SKU: "PC-1", CategoryID: 1,
	}, 2)
	require.NoError(t, err)

	list := NewVendorProductList(client.Products, principal.NewStatic(2, 2))
	require.NoError(t, list.Load(ctx))
	require.NoError(t, list.Search(ctx, "phone"))

	assert.Equal(t, []int64{created.ID}, ids(list.Products()))
	assert.Equal(t, "phone", list.Filter().Term)
}

func TestVendorProductListDelete(t *testing.T) {
	shop, client := setupShop(t)
	ctx := context.Background()

	list := NewVendorProductList(client.Products, principal.NewStatic(1, 1))
	require.NoError(t, list.Load(ctx))

	assert.ErrorIs(t, list.Delete(ctx, 3, decline), core.ErrCanceledByUser)
	require.NoError(t, list.Delete(ctx, 3, AlwaysConfirm))
	assert.Len(t, shop.RequestsTo(http.MethodDelete, "/api/products/3/vendor/1"), 1)
	assert.Len(t, list.All(), 5)

	shop.FailNext(http.MethodDelete, "/api/products", http.StatusInternalServerError)
	assert.Error(t, list.Delete(ctx, 4, AlwaysConfirm))
	assert.Equal(t, MsgDeleteProduct, list.ErrorMessage())
	assert.Len(t, list.All(), 5)
}

func TestVendorProductListSetStock(t *testing.T) {
	shop, client := setupShop(t)
	ctx := context.Background()

	list := NewVendorProductList(client.Products, principal.NewStatic(1, 1))
	require.NoError(t, list.Load(ctx))

	saved, err := list.SetStock(ctx, 3, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, saved.Stock)
	assert.Len(t, shop.RequestsTo(http.MethodPut, "/api/products/3/vendor/1"), 1)

	stored, err := shop.Store.GetProduct(3)
	require.NoError(t, err)
	assert.Equal(t, 12, stored.Stock)
	assert.Equal(t, "UB-1", stored.SKU)
	assert.Equal(t, int64(2), stored.SubCategoryID)
	assert.Equal(t, model.StatusPending, stored.Status)

	for _, p := range list.All() {
		if p.ID == 3 {
			assert.Equal(t, 12, p.Stock)
		}
	}

	_, err = list.SetStock(ctx, 3, -1)
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Equal(t, MsgUpdateStock, list.ErrorMessage())

	_, err = list.SetStock(ctx, 999, 1)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCategoryDeleteIsPlainDelete(t *testing.T) {
	shop, client := setupShop(t)
	ctx := context.Background()

	list := NewCategoryList(client.Categories)
	require.NoError(t, list.Load(ctx))
	shop.ResetRequests()

	err := list.Delete(ctx, 1, AlwaysConfirm)
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, MsgDeleteCategory, list.ErrorMessage())
	assert.Len(t, shop.Requests(), 1, "no referential pre-check")
	assert.Len(t, shop.RequestsTo(http.MethodDelete, "/api/categories/1"), 1)
	assert.Len(t, list.Categories(), 2)

	created, err := client.Categories.Create(ctx, model.Category{Name: "Garden"})
	require.NoError(t, err)
	require.NoError(t, list.Load(ctx))
	require.NoError(t, list.Delete(ctx, created.ID, AlwaysConfirm))
	assert.Len(t, list.Categories(), 2)
}

func TestSubCategoryList(t *testing.T) {
	_, client := setupShop(t)
	ctx := context.Background()

	list := NewSubCategoryList(client.SubCategories)
	require.NoError(t, list.Load(ctx))

	assert.Len(t, list.Filter("elec"), 2)
	shoes := list.Filter("shoe")
	require.Len(t, shoes, 1)

	var prompt string
	asked := ConfirmFunc(func(_ context.Context, p string) bool {
		prompt = p
		return true
	})
	require.NoError(t, list.Delete(ctx, shoes[0], asked))
	assert.Contains(t, prompt, `"Shoes"`)

	total, shown := list.Counts()
	assert.Equal(t, 2, total)
	assert.Equal(t, 0, shown)
	assert.Empty(t, list.SubCategories())
}

func TestHomeFeed(t *testing.T) {
	_, client := setupShop(t)

	feed := NewHomeFeed(client.Products, client.Categories, model.HomeLimits{})
	require.NoError(t, feed.Load(context.Background()))

	assert.Equal(t, []int64{1, 2, 4}, ids(feed.Trending()))
	assert.Equal(t, []int64{2, 1, 4}, ids(feed.BestSellers()))
	assert.Equal(t, []int64{4, 2, 1}, ids(feed.Featured()))
	assert.Len(t, feed.Categories(), 2)
	assert.Empty(t, feed.ErrorMessage())
}

func TestHomeFeedRailFailureStillLoadsCategories(t *testing.T) {
	shop, client := setupShop(t)
	shop.FailNext(http.MethodGet, "/api/products/home", http.StatusServiceUnavailable)

	feed := NewHomeFeed(client.Products, client.Categories, model.DefaultHomeLimits)
	assert.Error(t, feed.Load(context.Background()))
	assert.Equal(t, MsgLoadHome, feed.ErrorMessage())
	assert.Len(t, feed.Categories(), 2)
	assert.Empty(t, feed.Trending())
}
