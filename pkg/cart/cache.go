package cart

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/logger"
	"github.com/theAriful7/storefront/pkg/model"
	"github.com/theAriful7/storefront/pkg/principal"
)

// CartAPI is the subset of the backend the cache needs. *api.CartClient
// implements it.
type CartAPI interface {
	GetByUser(ctx context.Context, userID int64) (*model.Cart, error)
	Create(ctx context.Context, userID int64) (*model.Cart, error)
	AddItem(ctx context.Context, req model.AddCartItemRequest) (*model.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*model.CartItem, error)
	RemoveItem(ctx context.Context, itemID int64) error
	Clear(ctx context.Context, cartID int64) error
}

// Cache holds the principal's cart and broadcasts every new value to its
// subscribers. All mutations go to the backend first and are followed by
// exactly one reload; the cache never edits items locally.
type Cache struct {
	api       CartAPI
	principal principal.Provider
	logger    logger.Logger
	snapshots *SnapshotStore
	notifier  Notifier

	// seq numbers reloads in the order they were issued.
	seq atomic.Uint64

	mu      sync.Mutex
	cart    *model.Cart
	applied uint64
	stale   bool
	subs    map[int]chan *model.Cart
	nextSub int
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Cache) {
		c.logger = logger.OrNoOp(l)
	}
}

// WithSnapshots saves every applied cart and restores it on Initialize.
func WithSnapshots(s *SnapshotStore) Option {
	return func(c *Cache) {
		c.snapshots = s
	}
}

// WithNotifier receives an Event after each successful mutation.
func WithNotifier(n Notifier) Option {
	return func(c *Cache) {
		c.notifier = n
	}
}

// New creates an empty cache. It performs no I/O; call Initialize to load
// the principal's cart.
func New(api CartAPI, p principal.Provider, opts ...Option) *Cache {
	c := &Cache{
		api:       api,
		principal: p,
		logger:    logger.NoOpLogger{},
		subs:      make(map[int]chan *model.Cart),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize loads the principal's cart, creating one when the lookup
// fails. A saved snapshot, if any, is published first and marked stale.
func (c *Cache) Initialize(ctx context.Context) error {
	userID, err := c.principal.UserID(ctx)
	if err != nil {
		return err
	}

	if c.snapshots != nil {
		snap, err := c.snapshots.Load(ctx, userID)
		if err != nil {
			c.logger.Warn("cart snapshot unavailable", "user_id", userID, "error", err)
		} else if snap != nil {
			c.restore(snap)
		}
	}

	seq := c.seq.Add(1)
	cart, err := c.api.GetByUser(ctx, userID)
	if err != nil {
		c.logger.Info("no cart for user, creating one", "user_id", userID, "error", err)
		cart, err = c.api.Create(ctx, userID)
		if err != nil {
			c.logger.Error("cart initialization failed", "user_id", userID, "error", err)
			return fmt.Errorf("initialize cart: %w", err)
		}
	}
	c.apply(ctx, seq, userID, cart)
	return nil
}

// Reload fetches the principal's cart. A response that arrives after a
// newer reload has been applied is dropped.
func (c *Cache) Reload(ctx context.Context) error {
	seq := c.seq.Add(1)
	userID, err := c.principal.UserID(ctx)
	if err != nil {
		return err
	}
	cart, err := c.api.GetByUser(ctx, userID)
	if err != nil {
		c.logger.Error("cart reload failed", "user_id", userID, "error", err)
		return fmt.Errorf("reload cart: %w", err)
	}
	c.apply(ctx, seq, userID, cart)
	return nil
}

// AddToCart adds one unit of product to the cart.
func (c *Cache) AddToCart(ctx context.Context, product model.Product) error {
	cartID := c.CartID()
	if cartID == 0 {
		return core.ErrNoCart
	}

	_, err := c.api.AddItem(ctx, model.AddCartItemRequest{CartID: cartID, ProductID: product.ID, Quantity: 1})
	if err != nil {
		c.logger.Error("add to cart failed", "cart_id", cartID, "product_id", product.ID, "error", err)
		return fmt.Errorf("add product %d to cart: %w", product.ID, err)
	}
	c.logger.Info("product added to cart", "cart_id", cartID, "product_id", product.ID)

	if err := c.Reload(ctx); err != nil {
		return err
	}
	c.notify(ctx, Event{Kind: ItemAdded, ProductID: product.ID, ProductName: product.Name, Quantity: 1})
	return nil
}

// UpdateQuantity sets an item's quantity. A quantity of zero or less
// removes the item instead.
func (c *Cache) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(ctx, itemID)
	}

	if _, err := c.api.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		c.logger.Error("update cart quantity failed", "item_id", itemID, "quantity", quantity, "error", err)
		return fmt.Errorf("update cart item %d: %w", itemID, err)
	}
	c.logger.Info("cart quantity updated", "item_id", itemID, "quantity", quantity)

	if err := c.Reload(ctx); err != nil {
		return err
	}
	c.notify(ctx, Event{Kind: QuantityChanged, ItemID: itemID, Quantity: quantity})
	return nil
}

// RemoveItem deletes one line from the cart.
func (c *Cache) RemoveItem(ctx context.Context, itemID int64) error {
	if err := c.api.RemoveItem(ctx, itemID); err != nil {
		c.logger.Error("remove cart item failed", "item_id", itemID, "error", err)
		return fmt.Errorf("remove cart item %d: %w", itemID, err)
	}
	c.logger.Info("cart item removed", "item_id", itemID)

	if err := c.Reload(ctx); err != nil {
		return err
	}
	c.notify(ctx, Event{Kind: ItemRemoved, ItemID: itemID})
	return nil
}

// ClearCart removes every line from the cart.
func (c *Cache) ClearCart(ctx context.Context) error {
	cartID := c.CartID()
	if cartID == 0 {
		return core.ErrNoCart
	}
	if err := c.api.Clear(ctx, cartID); err != nil {
		c.logger.Error("clear cart failed", "cart_id", cartID, "error", err)
		return fmt.Errorf("clear cart %d: %w", cartID, err)
	}
	c.logger.Info("cart cleared", "cart_id", cartID)

	if err := c.Reload(ctx); err != nil {
		return err
	}
	c.notify(ctx, Event{Kind: Cleared})
	return nil
}

// Current returns a copy of the cached cart, or nil before the first load.
func (c *Cache) Current() *model.Cart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart.Clone()
}

// CartID returns the cached cart's id, or 0 when none is known.
func (c *Cache) CartID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cart == nil {
		return 0
	}
	return c.cart.ID
}

// Stale reports whether the published cart came from a snapshot and no
// reload has landed yet.
func (c *Cache) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stale
}

// Subscribe returns a channel that first yields the current cart (nil
// before the first load) and then every newly applied cart. The channel
// holds one value; a slow reader only sees the latest. Call the returned
// function to unsubscribe, which closes the channel.
func (c *Cache) Subscribe() (<-chan *model.Cart, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan *model.Cart, 1)
	ch <- c.cart.Clone()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
}

// TotalItems sums the quantities of the cached items.
func (c *Cache) TotalItems() int {
	return c.Totals().Items
}

// TotalPrice sums the line totals of the cached items.
func (c *Cache) TotalPrice() decimal.Decimal {
	return c.Totals().Price
}

// Totals reports the client-side sums next to the backend's own figures.
// Items and Price are what the UI shows.
type Totals struct {
	Items       int
	Price       decimal.Decimal
	ServerItems int
	ServerPrice decimal.Decimal
	InSync      bool
}

// Totals computes the cart totals from the cached items.
func (c *Cache) Totals() Totals {
	return ComputeTotals(c.Current())
}

// ComputeTotals reduces cart's items. A nil cart has zero totals.
func ComputeTotals(cart *model.Cart) Totals {
	t := Totals{Price: decimal.Zero, ServerPrice: decimal.Zero, InSync: true}
	if cart == nil {
		return t
	}
	for _, item := range cart.Items {
		t.Items += item.Quantity
		t.Price = t.Price.Add(decimal.NewFromFloat(item.TotalPrice))
	}
	t.ServerItems = cart.TotalItems
	t.ServerPrice = decimal.NewFromFloat(cart.TotalPrice)
	t.InSync = t.Items == t.ServerItems && t.Price.Equal(t.ServerPrice)
	return t
}

// apply publishes cart if seq is newer than the last applied reload.
func (c *Cache) apply(ctx context.Context, seq uint64, userID int64, cart *model.Cart) {
	c.mu.Lock()
	if applied := c.applied; seq <= applied {
		c.mu.Unlock()
		c.logger.Debug("discarding out-of-order cart reload", "seq", seq, "applied", applied)
		return
	}
	c.applied = seq
	c.cart = cart.Clone()
	c.stale = false
	c.publishLocked()
	snapshot := c.cart.Clone()
	c.mu.Unlock()

	if c.snapshots != nil {
		if err := c.snapshots.Save(ctx, userID, snapshot); err != nil {
			c.logger.Warn("cart snapshot not saved", "user_id", userID, "error", err)
		}
	}
}

// restore publishes a snapshot unless a real load already happened.
func (c *Cache) restore(snap *model.Cart) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.applied > 0 {
		return
	}
	c.cart = snap.Clone()
	c.stale = true
	c.publishLocked()
}

func (c *Cache) publishLocked() {
	for _, ch := range c.subs {
		offer(ch, c.cart.Clone())
	}
}

// offer replaces any unread value in ch with v.
func offer(ch chan *model.Cart, v *model.Cart) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (c *Cache) notify(ctx context.Context, e Event) {
	if c.notifier != nil {
		c.notifier.Notify(ctx, e)
	}
}
