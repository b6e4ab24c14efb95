package cart

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/internal/fakeshop"
	"github.com/theAriful7/storefront/pkg/api"
	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/memory"
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

// recordingNotifier collects events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingNotifier) Notify(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func TestNewPerformsNoIO(t *testing.T) {
	shop, client := setupShop(t)

	cache := New(client.Carts, principal.NewStatic(1, 1))
	assert.Nil(t, cache.Current())
	assert.Zero(t, cache.CartID())
	assert.Empty(t, shop.Requests())
}

func TestInitializeCreatesMissingCart(t *testing.T) {
	shop, client := setupShop(t)
	ctx := context.Background()

	cache := New(client.Carts, principal.NewStatic(1, 1))
	require.NoError(t, cache.Initialize(ctx))

	assert.NotZero(t, cache.CartID())
	assert.Len(t, shop.RequestsTo(http.MethodGet, "/api/carts/user/1"), 1)
	assert.Len(t, shop.RequestsTo(http.MethodPost, "/api/carts"), 1)

	// A second cache finds the existing cart instead of creating another.
	other := New(client.Carts, principal.NewStatic(1, 1))
	require.NoError(t, other.Initialize(ctx))
	assert.Equal(t, cache.CartID(), other.CartID())
	assert.Len(t, shop.RequestsTo(http.MethodPost, "/api/carts"), 1)
}

func TestInitializeFailsWhenCreateFails(t *testing.T) {
	shop, client := setupShop(t)
	shop.FailNext(http.MethodPost, "/api/carts", http.StatusInternalServerError)

	cache := New(client.Carts, principal.NewStatic(1, 1))
	err := cache.Initialize(context.Background())
	assert.ErrorIs(t, err, core.ErrRequestFailed)
	assert.Nil(t, cache.Current())
}

func TestAddToCart(t *testing.T) {
	shop, client := setupShop(t)
	ctx := context.Background()
	notes := &recordingNotifier{}

	cache := New(client.Carts, principal.NewStatic(1, 1), WithNotifier(notes))
	require.NoError(t, cache.Initialize(ctx))
	shop.ResetRequests()

	updates, stop := cache.Subscribe()
	defer stop()
	initial := <-updates
	require.NotNil(t, initial)
	assert.Empty(t, initial.Items)

	require.NoError(t, cache.AddToCart(ctx, model.Product{ID: 4, Name: "Running Shoe"}))

	adds := shop.RequestsTo(http.MethodPost, "/api/carts/items")
	require.Len(t, adds, 1)
	assert.JSONEq(t, `{"cartId":`+itoa(cache.CartID())+`,"productId":4,"quantity":1}`, string(adds[0].Body))
	assert.Len(t, shop.RequestsTo(http.MethodGet, "/api/carts/user/1"), 1, "exactly one reload")

	latest := <-updates
	require.Len(t, latest.Items, 1)
	assert.Equal(t, int64(4), latest.Items[0].ProductID)
	assert.Equal(t, 1, cache.TotalItems())
	assert.True(t, decimal.NewFromInt(80).Equal(cache.TotalPrice()))

	require.Len(t, notes.events, 1)
	assert.Equal(t, ItemAdded, notes.events[0].Kind)
	assert.Equal(t, "Running Shoe added to cart!", notes.events[0].Message())
}

func TestAddToCartWithoutCart(t *testing.T) {
	shop, client := setupShop(t)

	cache := New(client.Carts, principal.NewStatic(1, 1))
	err := cache.AddToCart(context.Background(), model.Product{ID: 7})
	assert.ErrorIs(t, err, core.ErrNoCart)
	assert.Empty(t, shop.Requests())
}

func TestAddToCartFailureLeavesCartUnchanged(t *testing.T) {
	shop, client := setupShop(t)
	ctx := context.Background()

	cache := New(client.Carts, principal.NewStatic(1, 1))
	require.NoError(t, cache.Initialize(ctx))
	before := cache.Current()
	shop.ResetRequests()

	shop.FailNext(http.MethodPost, "/api/carts/items", http.StatusInternalServerError)
	err := cache.AddToCart(ctx, model.Product{ID: 4})
	assert.Error(t, err)

	assert.Equal(t, before, cache.Current())
	assert.Len(t, shop.RequestsTo(http.MethodPost, "/api/carts/items"), 1, "no retry")
	assert.Empty(t, shop.RequestsTo(http.MethodGet, "/api/carts"), "no reload after failure")
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	shop, client := setupShop(t)
	ctx := context.Background()

	cache := New(client.Carts, principal.NewStatic(1, 1))
	require.NoError(t, cache.Initialize(ctx))
	require.NoError(t, cache.AddToCart(ctx, model.Product{ID: 2}))
	itemID := cache.Current().Items[0].ID
	shop.ResetRequests()

	require.NoError(t, cache.UpdateQuantity(ctx, itemID, 0))

	assert.Empty(t, shop.RequestsTo(http.MethodPatch, "/api/carts/items"))
	assert.Len(t, shop.RequestsTo(http.MethodDelete, "/api/carts/items/"+itoa(itemID)), 1)
	assert.Empty(t, cache.Current().Items)
}

func TestUpdateQuantity(t *testing.T) {
	shop, client := setupShop(t)
	ctx := context.Background()

	cache := New(client.Carts, principal.NewStatic(1, 1))
	require.NoError(t, cache.Initialize(ctx))
	require.NoError(t, cache.AddToCart(ctx, model.Product{ID: 2}))
	itemID := cache.Current().Items[0].ID

	require.NoError(t, cache.UpdateQuantity(ctx, itemID, 3))

	patches := shop.RequestsTo(http.MethodPatch, "/api/carts/items/")
	require.Len(t, patches, 1)
	assert.Equal(t, "3", patches[0].Query.Get("quantity"))

	totals := cache.Totals()
	assert.Equal(t, 3, totals.Items)
	assert.True(t, decimal.NewFromInt(297).Equal(totals.Price))
	assert.True(t, totals.InSync)
}

func TestClearCart(t *testing.T) {
	_, client := setupShop(t)
	ctx := context.Background()

	cache := New(client.Carts, principal.NewStatic(1, 1))
	assert.ErrorIs(t, cache.ClearCart(ctx), core.ErrNoCart)

	require.NoError(t, cache.Initialize(ctx))
	require.NoError(t, cache.AddToCart(ctx, model.Product{ID: 1}))
	require.NoError(t, cache.AddToCart(ctx, model.Product{ID: 2}))
	require.NoError(t, cache.ClearCart(ctx))

	assert.Zero(t, cache.TotalItems())
	assert.True(t, cache.TotalPrice().IsZero())
}

func TestSubscribeDeliversCurrentValueImmediately(t *testing.T) {
	cache := New(&stubAPI{}, principal.NewStatic(1, 1))

	updates, stop := cache.Subscribe()
	first := <-updates
	assert.Nil(t, first)

	stop()
	stop()
	_, open := <-updates
	assert.False(t, open)
}

func TestSlowSubscriberSeesLatest(t *testing.T) {
	stub := &stubAPI{carts: []*model.Cart{{ID: 1}, {ID: 1, TotalItems: 1}, {ID: 1, TotalItems: 2}}}
	cache := New(stub, principal.NewStatic(1, 1))

	updates, stop := cache.Subscribe()
	defer stop()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, cache.Reload(ctx))
	}

	got := <-updates
	assert.Equal(t, 2, got.TotalItems)
	select {
	case extra := <-updates:
		t.Fatalf("unexpected buffered value %+v", extra)
	default:
	}
}

func TestStaleReloadIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	stub := &stubAPI{
		carts:   []*model.Cart{{ID: 1, TotalItems: 1}, {ID: 1, TotalItems: 2}},
		gates:   map[int]chan struct{}{0: gate},
		entered: make(chan int, 2),
	}
	cache := New(stub, principal.NewStatic(1, 1))
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() { slow <- cache.Reload(ctx) }()
	require.Equal(t, 0, <-stub.entered)

	require.NoError(t, cache.Reload(ctx))
	assert.Equal(t, 2, cache.Current().TotalItems)

	close(gate)
	require.NoError(t, <-slow)
	assert.Equal(t, 2, cache.Current().TotalItems, "older response must not overwrite newer")
}

func TestDiscardedReloadLogsAppliedSequence(t *testing.T) {
	gate := make(chan struct{})
	stub := &stubAPI{
		carts:   []*model.Cart{{ID: 1, TotalItems: 1}, {ID: 1, TotalItems: 2}},
		gates:   map[int]chan struct{}{0: gate},
		entered: make(chan int, 2),
	}
	var buf bytes.Buffer
	log := logger.New(&buf, logger.Options{Level: "debug", Format: "json"})
	cache := New(stub, principal.NewStatic(1, 1), WithLogger(log))
	ctx := context.Background()

	slow := make(chan error, 1)
	go func() { slow <- cache.Reload(ctx) }()
	require.Equal(t, 0, <-stub.entered)
	require.NoError(t, cache.Reload(ctx))

	close(gate)
	require.NoError(t, <-slow)
	assert.Contains(t, buf.String(), "discarding out-of-order cart reload")
	assert.Contains(t, buf.String(), `"applied":2`)
	assert.Contains(t, buf.String(), `"seq":1`)
}

func TestCurrentReturnsCopy(t *testing.T) {
	stub := &stubAPI{carts: []*model.Cart{{ID: 1, Items: []model.CartItem{{ID: 5, Quantity: 1}}}}}
	cache := New(stub, principal.NewStatic(1, 1))
	require.NoError(t, cache.Reload(context.Background()))

	c := cache.Current()
	c.Items[0].Quantity = 99
	assert.Equal(t, 1, cache.Current().Items[0].Quantity)
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name   string
		cart   *model.Cart
		items  int
		price  string
		inSync bool
	}{
		{"nil", nil, 0, "0", true},
		{"empty", &model.Cart{}, 0, "0", true},
		{
			"float sums stay exact",
			&model.Cart{TotalItems: 3, TotalPrice: 0.3, Items: []model.CartItem{{Quantity: 1, TotalPrice: 0.1}, {Quantity: 2, TotalPrice: 0.2}}},
			3, "0.3", true,
		},
		{
			"server lags",
			&model.Cart{TotalItems: 1, TotalPrice: 10, Items: []model.CartItem{{Quantity: 2, TotalPrice: 20}}},
			2, "20", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.cart)
			assert.Equal(t, tt.items, got.Items)
			assert.Equal(t, tt.price, got.Price.String())
			assert.Equal(t, tt.inSync, got.InSync)
		})
	}
}

func TestSnapshotsWithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rc.Close()

	snapshots := NewSnapshotStore(memory.NewRedisMemoryFromClient(rc, "test"), "storefront:cart", time.Hour)
	ctx := context.Background()

	_, client := setupShop(t)
	first := New(client.Carts, principal.NewStatic(1, 1), WithSnapshots(snapshots))
	require.NoError(t, first.Initialize(ctx))
	require.NoError(t, first.AddToCart(ctx, model.Product{ID: 4}))
	assert.True(t, mr.Exists("test:storefront:cart:user:1"))

	// A restarted process against an unreachable backend still shows the
	// last known cart, flagged as stale.
	gate := make(chan struct{})
	stub := &stubAPI{carts: []*model.Cart{{ID: 9}}, gates: map[int]chan struct{}{0: gate}, entered: make(chan int, 1)}
	second := New(stub, principal.NewStatic(1, 1), WithSnapshots(snapshots))
	done := make(chan error, 1)
	go func() { done <- second.Initialize(ctx) }()
	<-stub.entered

	assert.True(t, second.Stale())
	require.NotNil(t, second.Current())
	assert.Len(t, second.Current().Items, 1)

	close(gate)
	require.NoError(t, <-done)
	assert.False(t, second.Stale())
	assert.Equal(t, int64(9), second.CartID())
}

func TestSnapshotStoreMissing(t *testing.T) {
	s := NewSnapshotStore(memory.NewInMemoryStore(), "", time.Minute)
	got, err := s.Load(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// stubAPI serves carts in order from GetByUser. A gate for call n blocks
// that call until closed; entered receives each call index.
type stubAPI struct {
	mu      sync.Mutex
	calls   int
	carts   []*model.Cart
	gates   map[int]chan struct{}
	entered chan int
}

func (s *stubAPI) GetByUser(ctx context.Context, userID int64) (*model.Cart, error) {
	s.mu.Lock()
	n := s.calls
	s.calls++
	gate := s.gates[n]
	s.mu.Unlock()

	if s.entered != nil {
		s.entered <- n
	}
	if gate != nil {
		<-gate
	}
	if n >= len(s.carts) {
		return nil, errors.New("no more carts")
	}
	return s.carts[n], nil
}

func (s *stubAPI) Create(ctx context.Context, userID int64) (*model.Cart, error) {
	return &model.Cart{ID: 1, UserID: userID}, nil
}

func (s *stubAPI) AddItem(ctx context.Context, req model.AddCartItemRequest) (*model.CartItem, error) {
	return &model.CartItem{ProductID: req.ProductID, Quantity: req.Quantity}, nil
}

func (s *stubAPI) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*model.CartItem, error) {
	return &model.CartItem{ID: itemID, Quantity: quantity}, nil
}

func (s *stubAPI) RemoveItem(ctx context.Context, itemID int64) error { return nil }

func (s *stubAPI) Clear(ctx context.Context, cartID int64) error { return nil }

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
