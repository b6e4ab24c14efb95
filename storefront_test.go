package storefront

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/internal/fakeshop"
	"github.com/theAriful7/storefront/pkg/cart"
	"github.com/theAriful7/storefront/pkg/catalog"
	"github.com/theAriful7/storefront/pkg/model"
	"github.com/theAriful7/storefront/pkg/principal"
)

func startShop(t *testing.T) (*fakeshop.Server, string) {
	t.Helper()
	shop := fakeshop.New()
	srv := httptest.NewServer(shop)
	t.Cleanup(srv.Close)
	return shop, srv.URL
}

func TestNewWiresComponents(t *testing.T) {
	ctx := context.Background()
	_, url := startShop(t)
	var logs bytes.Buffer

	store, err := New(ctx,
		WithConfigOptions(
			core.WithAPIBaseURL(url),
			core.WithPrincipal(1, 1),
			core.WithCartSnapshots(core.SnapshotInMemory, ""),
			core.WithAssetOrigin("https://cdn.example.com"),
			core.WithLogLevel("debug"),
		),
		WithLogOutput(&logs),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	assert.Equal(t, url, store.API.BaseURL())
	assert.Contains(t, logs.String(), "storefront client ready")

	require.NoError(t, store.Cart.Initialize(ctx))
	current := store.Cart.Current()
	require.NotNil(t, current)
	assert.Equal(t, int64(1), current.UserID)

	list := store.ProductList()
	require.NoError(t, list.Load(ctx))
	assert.Len(t, list.All(), 6)

	require.NoError(t, store.Cart.AddToCart(ctx, list.All()[0]))
	assert.Equal(t, 1, store.Cart.TotalItems())

	feed := store.HomeFeed(model.HomeLimits{})
	require.NoError(t, feed.Load(ctx))
	assert.NotEmpty(t, feed.Trending())

	vendor := store.VendorDashboard()
	require.NoError(t, vendor.Load(ctx))
	assert.Equal(t, 6, vendor.Stats().TotalProducts)

	admin := store.AdminDashboard()
	require.NoError(t, admin.Load(ctx))
	assert.Equal(t, 2, admin.Summary().Categories)

	assert.Equal(t, "/assets/images/default-product.png", store.PrimaryImage(model.Product{}))
	assert.Equal(t, "https://x.test/a.png", store.PrimaryImage(model.Product{ImageURLs: []string{"https://x.test/a.png"}}))
}

func TestNewRestoresRedisSnapshot(t *testing.T) {
	ctx := context.Background()
	_, url := startShop(t)
	mr := miniredis.RunT(t)
	redisURL := "redis://" + mr.Addr()

	first, err := New(ctx,
		WithConfigOptions(core.WithAPIBaseURL(url), core.WithPrincipal(1, 1), core.WithCartSnapshots(core.SnapshotRedis, redisURL)),
		WithLogOutput(&bytes.Buffer{}),
	)
	require.NoError(t, err)
	require.NoError(t, first.Cart.Initialize(ctx))
	require.NoError(t, first.Cart.AddToCart(ctx, model.Product{ID: 2, Name: "Budget Phone", Price: 99}))
	require.NoError(t, first.Close(ctx))
	assert.NotEmpty(t, mr.Keys())

	// A backend that refuses every cart call still shows the saved cart.
	down, downURL := startShop(t)
	down.FailNext(http.MethodGet, "/api/carts/user/1", http.StatusServiceUnavailable)
	down.FailNext(http.MethodPost, "/api/carts", http.StatusServiceUnavailable)

	second, err := New(ctx,
		WithConfigOptions(core.WithAPIBaseURL(downURL), core.WithPrincipal(1, 1), core.WithCartSnapshots(core.SnapshotRedis, redisURL)),
		WithLogOutput(&bytes.Buffer{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close(ctx) })

	require.Error(t, second.Cart.Initialize(ctx))
	assert.True(t, second.Cart.Stale())
	restored := second.Cart.Current()
	require.NotNil(t, restored)
	require.Len(t, restored.Items, 1)
	assert.Equal(t, int64(2), restored.Items[0].ProductID)
}

func TestNewRejectsBadConfig(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, WithConfigOptions(core.WithAPIBaseURL("not a url")))
	assert.ErrorIs(t, err, core.ErrInvalidConfiguration)

	_, err = New(ctx, WithConfigOptions(core.WithCartSnapshots(core.SnapshotRedis, "redis://127.0.0.1:1")), WithLogOutput(&bytes.Buffer{}))
	require.Error(t, err)
	var storeErr *core.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

func TestControllersShareOverrides(t *testing.T) {
	ctx := context.Background()
	_, url := startShop(t)

	var events []cart.Event
	store, err := New(ctx,
		WithConfigOptions(core.WithAPIBaseURL(url)),
		WithPrincipal(principal.NewStatic(1, 1)),
		WithCartNotifier(cart.NotifierFunc(func(_ context.Context, e cart.Event) { events = append(events, e) })),
		WithLogOutput(&bytes.Buffer{}),
	)
	require.NoError(t, err)
	defer store.Close(ctx)

	require.NoError(t, store.Cart.Initialize(ctx))
	require.NoError(t, store.Cart.AddToCart(ctx, model.Product{ID: 4, Name: "Running Shoe", Price: 80}))
	require.Len(t, events, 1)
	assert.Equal(t, cart.ItemAdded, events[0].Kind)

	vendor := store.VendorProducts()
	require.NoError(t, vendor.Load(ctx))
	assert.ErrorIs(t, vendor.Delete(ctx, 6, nil), ErrCanceledByUser)
	require.NoError(t, vendor.Delete(ctx, 6, catalog.AlwaysConfirm))

	form := store.CategoryForm(nil)
	require.NoError(t, form.Init(ctx, 2))
	assert.Equal(t, "Fashion", form.Values().Name)
}
