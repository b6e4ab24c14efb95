package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/theAriful7/storefront/pkg/model"
)

// CartClient manages /api/carts and its item sub-resource.
type CartClient struct {
	c *Client
}

const cartsPath = "/api/carts"

// List returns every cart.
func (cc *CartClient) List(ctx context.Context) ([]model.Cart, error) {
	var out []model.Cart
	err := cc.c.do(ctx, request{resource: "carts", method: http.MethodGet, path: cartsPath}, &out)
	return out, err
}

// Get returns one cart.
func (cc *CartClient) Get(ctx context.Context, id int64) (*model.Cart, error) {
	var out model.Cart
	if err := cc.c.do(ctx, request{resource: "carts", method: http.MethodGet, path: cartsPath + "/" + pathID(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByUser returns the cart owned by userID.
func (cc *CartClient) GetByUser(ctx context.Context, userID int64) (*model.Cart, error) {
	var out model.Cart
	if err := cc.c.do(ctx, request{resource: "carts", method: http.MethodGet, path: cartsPath + "/user/" + pathID(userID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create creates an empty cart for userID.
func (cc *CartClient) Create(ctx context.Context, userID int64) (*model.Cart, error) {
	var out model.Cart
	err := cc.c.do(ctx, request{
		resource: "carts",
		method:   http.MethodPost,
		path:     cartsPath,
		body:     model.CreateCartRequest{UserID: userID},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete deletes a cart.
func (cc *CartClient) Delete(ctx context.Context, id int64) error {
	return cc.c.do(ctx, request{resource: "carts", method: http.MethodDelete, path: cartsPath + "/" + pathID(id)}, nil)
}

// AddItem posts exactly {cartId, productId, quantity}.
func (cc *CartClient) AddItem(ctx context.Context, req model.AddCartItemRequest) (*model.CartItem, error) {
	var out model.CartItem
	if err := cc.c.do(ctx, request{resource: "carts", method: http.MethodPost, path: cartsPath + "/items", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateItemQuantity sets the quantity of one cart line.
func (cc *CartClient) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*model.CartItem, error) {
	var out model.CartItem
	err := cc.c.do(ctx, request{
		resource: "carts",
		method:   http.MethodPatch,
		path:     cartsPath + "/items/" + pathID(itemID),
		query:    url.Values{"quantity": {strconv.Itoa(quantity)}},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveItem deletes one cart line.
func (cc *CartClient) RemoveItem(ctx context.Context, itemID int64) error {
	return cc.c.do(ctx, request{resource: "carts", method: http.MethodDelete, path: cartsPath + "/items/" + pathID(itemID)}, nil)
}

// Clear deletes every line of a cart.
func (cc *CartClient) Clear(ctx context.Context, cartID int64) error {
	return cc.c.do(ctx, request{resource: "carts", method: http.MethodDelete, path: cartsPath + "/" + pathID(cartID) + "/items"}, nil)
}

// CartItemClient manages the flat /api/cart_items resource.
type CartItemClient struct {
	c *Client
}

const cartItemsPath = "/api/cart_items"

// List returns every cart item.
func (ic *CartItemClient) List(ctx context.Context) ([]model.CartItem, error) {
	var out []model.CartItem
	err := ic.c.do(ctx, request{resource: "cart-items", method: http.MethodGet, path: cartItemsPath}, &out)
	return out, err
}

// Get returns one cart item.
func (ic *CartItemClient) Get(ctx context.Context, id int64) (*model.CartItem, error) {
	var out model.CartItem
	if err := ic.c.do(ctx, request{resource: "cart-items", method: http.MethodGet, path: cartItemsPath + "/" + pathID(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create creates a cart item.
func (ic *CartItemClient) Create(ctx context.Context, item model.CartItem) (*model.CartItem, error) {
	var out model.CartItem
	if err := ic.c.do(ctx, request{resource: "cart-items", method: http.MethodPost, path: cartItemsPath, body: item}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a cart item.
func (ic *CartItemClient) Update(ctx context.Context, id int64, item model.CartItem) (*model.CartItem, error) {
	var out model.CartItem
	if err := ic.c.do(ctx, request{resource: "cart-items", method: http.MethodPut, path: cartItemsPath + "/" + pathID(id), body: item}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete deletes a cart item.
func (ic *CartItemClient) Delete(ctx context.Context, id int64) error {
	return ic.c.do(ctx, request{resource: "cart-items", method: http.MethodDelete, path: cartItemsPath + "/" + pathID(id)}, nil)
}
