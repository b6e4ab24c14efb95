package api

import (
	"context"
	"net/http"

	"github.com/theAriful7/storefront/pkg/model"
)

// OrderClient manages /api/orders.
type OrderClient struct {
	c *Client
}

const ordersPath = "/api/orders"

// List returns every order.
func (oc *OrderClient) List(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	err := oc.c.do(ctx, request{resource: "orders", method: http.MethodGet, path: ordersPath}, &out)
	return out, err
}

// Get returns one order.
func (oc *OrderClient) Get(ctx context.Context, id int64) (*model.Order, error) {
	var out model.Order
	if err := oc.c.do(ctx, request{resource: "orders", method: http.MethodGet, path: ordersPath + "/" + pathID(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create places an order.
func (oc *OrderClient) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	var out model.Order
	if err := oc.c.do(ctx, request{resource: "orders", method: http.MethodPost, path: ordersPath, body: order}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an order.
func (oc *OrderClient) Update(ctx context.Context, id int64, order model.Order) (*model.Order, error) {
	var out model.Order
	if err := oc.c.do(ctx, request{resource: "orders", method: http.MethodPut, path: ordersPath + "/" + pathID(id), body: order}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete deletes an order.
func (oc *OrderClient) Delete(ctx context.Context, id int64) error {
	return oc.c.do(ctx, request{resource: "orders", method: http.MethodDelete, path: ordersPath + "/" + pathID(id)}, nil)
}

// OrderItemClient manages /api/order-items.
type OrderItemClient struct {
	c *Client
}

const orderItemsPath = "/api/order-items"

// List returns every order item.
func (ic *OrderItemClient) List(ctx context.Context) ([]model.OrderItem, error) {
	var out []model.OrderItem
	err := ic.c.do(ctx, request{resource: "order-items", method: http.MethodGet, path: orderItemsPath}, &out)
	return out, err
}

// Get returns one order item.
func (ic *OrderItemClient) Get(ctx context.Context, id int64) (*model.OrderItem, error) {
	var out model.OrderItem
	if err := ic.c.do(ctx, request{resource: "order-items", method: http.MethodGet, path: orderItemsPath + "/" + pathID(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create creates an order item.
func (ic *OrderItemClient) Create(ctx context.Context, item model.OrderItem) (*model.OrderItem, error) {
	var out model.OrderItem
	if err := ic.c.do(ctx, request{resource: "order-items", method: http.MethodPost, path: orderItemsPath, body: item}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an order item.
func (ic *OrderItemClient) Update(ctx context.Context, id int64, item model.OrderItem) (*model.OrderItem, error) {
	var out model.OrderItem
	if err := ic.c.do(ctx, request{resource: "order-items", method: http.MethodPut, path: orderItemsPath + "/" + pathID(id), body: item}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete deletes an order item.
func (ic *OrderItemClient) Delete(ctx context.Context, id int64) error {
	return ic.c.do(ctx, request{resource: "order-items", method: http.MethodDelete, path: orderItemsPath + "/" + pathID(id)}, nil)
}

// PaymentClient manages /api/payments.
type PaymentClient struct {
	c *Client
}

const paymentsPath = "/api/payments"

// List returns every payment.
func (pc *PaymentClient) List(ctx context.Context) ([]model.Payment, error) {
	var out []model.Payment
	err := pc.c.do(ctx, request{resource: "payments", method: http.MethodGet, path: paymentsPath}, &out)
	return out, err
}

// Get returns one payment.
func (pc *PaymentClient) Get(ctx context.Context, id int64) (*model.Payment, error) {
	var out model.Payment
	if err := pc.c.do(ctx, request{resource: "payments", method: http.MethodGet, path: paymentsPath + "/" + pathID(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create records a payment.
func (pc *PaymentClient) Create(ctx context.Context, payment model.Payment) (*model.Payment, error) {
	var out model.Payment
	if err := pc.c.do(ctx, request{resource: "payments", method: http.MethodPost, path: paymentsPath, body: payment}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete deletes a payment.
func (pc *PaymentClient) Delete(ctx context.Context, id int64) error {
	return pc.c.do(ctx, request{resource: "payments", method: http.MethodDelete, path: paymentsPath + "/" + pathID(id)}, nil)
}

// ReviewClient manages /api/reviews.
type ReviewClient struct {
	c *Client
}

const reviewsPath = "/api/reviews"

// Create posts a review.
func (rc *ReviewClient) Create(ctx context.Context, review model.Review) (*model.Review, error) {
	var out model.Review
	if err := rc.c.do(ctx, request{resource: "reviews", method: http.MethodPost, path: reviewsPath, body: review}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns every review.
func (rc *ReviewClient) List(ctx context.Context) ([]model.Review, error) {
	var out []model.Review
	err := rc.c.do(ctx, request{resource: "reviews", method: http.MethodGet, path: reviewsPath}, &out)
	return out, err
}

// ListByProduct returns the reviews of one product.
func (rc *ReviewClient) ListByProduct(ctx context.Context, productID int64) ([]model.Review, error) {
	var out []model.Review
	err := rc.c.do(ctx, request{resource: "reviews", method: http.MethodGet, path: reviewsPath + "/product/" + pathID(productID)}, &out)
	return out, err
}

// ListByUser returns the reviews written by one user.
func (rc *ReviewClient) ListByUser(ctx context.Context, userID int64) ([]model.Review, error) {
	var out []model.Review
	err := rc.c.do(ctx, request{resource: "reviews", method: http.MethodGet, path: reviewsPath + "/user/" + pathID(userID)}, &out)
	return out, err
}

// Delete deletes a review. The backend answers with plain text, which is
// ignored.
func (rc *ReviewClient) Delete(ctx context.Context, id int64) error {
	return rc.c.do(ctx, request{resource: "reviews", method: http.MethodDelete, path: reviewsPath + "/" + pathID(id)}, nil)
}
