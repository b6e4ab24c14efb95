package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/internal/fakeshop"
	"github.com/theAriful7/storefront/pkg/api"
	"github.com/theAriful7/storefront/pkg/model"
	"github.com/theAriful7/storefront/pkg/principal"
)

var testNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)

func at(t time.Time) *model.Timestamp { return model.NewTimestamp(t) }

func TestCountThisMonth(t *testing.T) {
	products := []model.Product{
		{ID: 1, CreatedAt: at(testNow.AddDate(0, 0, -14))},
		{ID: 2, CreatedAt: at(testNow.AddDate(0, -1, 0))},
		{ID: 3, CreatedAt: at(testNow.AddDate(-1, 0, 0))},
		{ID: 4},
		{ID: 5, CreatedAt: &model.Timestamp{}},
		{ID: 6, CreatedAt: at(time.Date(2025, time.March, 31, 23, 0, 0, 0, time.UTC))},
	}
	assert.Equal(t, 2, CountThisMonth(products, testNow))

	// 1 March 02:00 in UTC+5 is still February in UTC.
	east := time.FixedZone("UTC+5", 5*3600)
	early := []model.Product{{CreatedAt: at(time.Date(2025, time.February, 28, 21, 0, 0, 0, time.UTC))}}
	assert.Equal(t, 0, CountThisMonth(early, testNow))
	assert.Equal(t, 1, CountThisMonth(early, testNow.In(east)))
}

func TestRecentOrders(t *testing.T) {
	orders := []model.Order{
		{ID: 1, UserID: 7, TotalAmount: 10, Status: model.OrderDelivered, OrderDate: at(testNow.AddDate(0, 0, -5))},
		{ID: 2, UserID: 8, CustomerName: "Ada", TotalAmount: 20, OrderDate: at(testNow.AddDate(0, 0, -1))},
		{ID: 3, UserID: 9, TotalAmount: 30},
		{ID: 4, UserID: 7, TotalAmount: 40, OrderDate: at(testNow.AddDate(0, 0, -3))},
		{ID: 5, UserID: 7, TotalAmount: 50, OrderDate: at(testNow.AddDate(0, 0, -3))},
	}
	before := append([]model.Order(nil), orders...)

	recent := RecentOrders(orders, RecentOrderLimit)
	require.Len(t, recent, 4)
	got := make([]int64, len(recent))
	for i, r := range recent {
		got[i] = r.ID
	}
	assert.Equal(t, []int64{2, 4, 5, 1}, got)
	assert.Equal(t, "Ada", recent[0].CustomerName)
	assert.Equal(t, "Customer 7", recent[1].CustomerName)
	assert.Equal(t, "Mar 14, 2025", recent[0].Date)
	assert.Equal(t, "20", recent[0].Amount.String())
	assert.Equal(t, before, orders)

	all := RecentOrders(orders, 10)
	require.Len(t, all, 5)
	assert.Equal(t, int64(3), all[4].ID)
	assert.Equal(t, UnknownDate, all[4].Date)
}

func TestComputeVendorStats(t *testing.T) {
	products := []model.Product{
		{ID: 1, CreatedAt: at(testNow)},
		{ID: 2, CreatedAt: at(testNow.AddDate(0, -2, 0))},
	}
	orders := []model.Order{
		{ID: 1, Status: model.OrderPending, TotalAmount: 0.1},
		{ID: 2, Status: model.OrderPending, TotalAmount: 0.2},
		{ID: 3, Status: model.OrderShipped, TotalAmount: 100},
	}
	reviews := []model.Review{
		{ProductID: 1, Rating: 5},
		{ProductID: 2, Rating: 4},
		{ProductID: 2, Rating: 4},
		{ProductID: 99, Rating: 1},
	}

	s := ComputeVendorStats(products, orders, reviews, testNow)
	assert.Equal(t, 2, s.TotalProducts)
	assert.Equal(t, 1, s.ProductsThisMonth)
	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, 2, s.PendingOrders)
	assert.Equal(t, "100.3", s.TotalRevenue.String())
	assert.Equal(t, 3, s.TotalReviews)
	assert.Equal(t, "4.3", s.AverageRating.String())
	assert.Len(t, s.RecentOrders, 3)

	empty := ComputeVendorStats(nil, nil, nil, testNow)
	assert.True(t, empty.TotalRevenue.IsZero())
	assert.True(t, empty.AverageRating.IsZero())
	assert.Empty(t, empty.RecentOrders)
}

func TestComputeAdminSummary(t *testing.T) {
	products := []model.Product{
		{Status: model.StatusActive}, {Status: model.StatusActive}, {Status: model.StatusPending}, {Status: "ARCHIVED"},
	}
	a := ComputeAdminSummary(products, make([]model.Category, 2), make([]model.SubCategory, 5))
	assert.Equal(t, 4, a.TotalProducts)
	assert.Equal(t, 2, a.Count(model.StatusActive))
	assert.Equal(t, 1, a.Count(model.StatusPending))
	assert.Equal(t, 0, a.Count(model.StatusInactive))
	assert.Contains(t, a.ProductsByStatus, model.StatusInactive)
	assert.Equal(t, 1, a.Count("ARCHIVED"))
	assert.Equal(t, 2, a.Categories)
	assert.Equal(t, 5, a.SubCategories)
}

func setupShop(t *testing.T) (*fakeshop.Server, *api.Client) {
	t.Helper()
	shop := fakeshop.New(fakeshop.WithClock(func() time.Time { return testNow }))
	srv := httptest.NewServer(shop)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	require.NoError(t, err)
	return shop, client
}

func clock() time.Time { return testNow }

func TestVendorDashboardLoad(t *testing.T) {
	_, client := setupShop(t)
	ctx := context.Background()

	_, err := client.Reviews.Create(ctx, model.Review{UserID: 1, ProductID: 1, Rating: 5, Comment: "great"})
	require.NoError(t, err)
	_, err = client.Reviews.Create(ctx, model.Review{UserID: 1, ProductID: 2, Rating: 4, Comment: "fine"})
	require.NoError(t, err)

	d := NewVendorDashboard(client.Products, client.Orders, principal.NewStatic(2, 1),
		WithClock(clock), WithReviews(client.Reviews))
	require.NoError(t, d.Load(ctx))
	assert.False(t, d.Loading())
	assert.Empty(t, d.ErrorMessage())
	assert.Len(t, d.Products(), 6)

	s := d.Stats()
	assert.Equal(t, 6, s.TotalProducts)
	assert.Equal(t, 6, s.ProductsThisMonth)
	assert.Equal(t, 2, s.TotalOrders)
	assert.Equal(t, 1, s.PendingOrders)
	assert.Equal(t, "678", s.TotalRevenue.String())
	assert.Equal(t, 2, s.TotalReviews)
	assert.Equal(t, "4.5", s.AverageRating.String())

	require.Len(t, s.RecentOrders, 2)
	assert.Equal(t, "Demo Customer", s.RecentOrders[0].CustomerName)
	assert.Equal(t, "Customer 1", s.RecentOrders[1].CustomerName)
	assert.Equal(t, "Mar 15, 2025", s.RecentOrders[0].Date)
}

func TestVendorDashboardOrdersFailureKeepsProductStats(t *testing.T) {
	shop, client := setupShop(t)
	shop.FailNext(http.MethodGet, "/api/orders", http.StatusInternalServerError)

	d := NewVendorDashboard(client.Products, client.Orders, principal.NewStatic(2, 1), WithClock(clock))
	require.NoError(t, d.Load(context.Background()))

	s := d.Stats()
	assert.Equal(t, 6, s.TotalProducts)
	assert.Zero(t, s.TotalOrders)
	assert.True(t, s.TotalRevenue.IsZero())
	assert.Empty(t, s.RecentOrders)
}

func TestVendorDashboardProductsFailure(t *testing.T) {
	shop, client := setupShop(t)
	shop.FailNext(http.MethodGet, "/api/products/vendor/1", http.StatusInternalServerError)

	d := NewVendorDashboard(client.Products, client.Orders, principal.NewStatic(2, 1))
	err := d.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrRequestFailed)
	assert.Equal(t, MsgLoadProducts, d.ErrorMessage())
	assert.False(t, d.Loading())
	assert.Empty(t, shop.RequestsTo(http.MethodGet, "/api/orders"))

	noVendor := NewVendorDashboard(client.Products, client.Orders, principal.NewStatic(2, 0))
	assert.ErrorIs(t, noVendor.Load(context.Background()), core.ErrNoPrincipal)
}

func TestAdminDashboard(t *testing.T) {
	shop, client := setupShop(t)
	ctx := context.Background()

	d := NewAdminDashboard(client.Products, client.Categories, client.SubCategories)
	require.NoError(t, d.Load(ctx))

	a := d.Summary()
	assert.Equal(t, 6, a.TotalProducts)
	assert.Equal(t, 3, a.Count(model.StatusActive))
	assert.Equal(t, 1, a.Count(model.StatusPending))
	assert.Equal(t, 1, a.Count(model.StatusApproved))
	assert.Equal(t, 1, a.Count(model.StatusRejected))
	assert.Equal(t, 0, a.Count(model.StatusInactive))
	assert.Equal(t, 2, a.Categories)
	assert.Equal(t, 3, a.SubCategories)

	a.ProductsByStatus[model.StatusActive] = 99
	assert.Equal(t, 3, d.Summary().Count(model.StatusActive))

	shop.FailNext(http.MethodGet, "/api/categories", http.StatusInternalServerError)
	require.Error(t, d.Load(ctx))
	assert.Equal(t, MsgLoadSummary, d.ErrorMessage())
	a = d.Summary()
	assert.Equal(t, 6, a.TotalProducts)
	assert.Zero(t, a.Categories)
	assert.Equal(t, 3, a.SubCategories)
}
