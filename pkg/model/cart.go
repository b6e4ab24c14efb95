package model

// Cart is the server-side shopping cart of one user. TotalItems and
// TotalPrice are computed by the backend and may lag behind Items.
type Cart struct {
	ID         int64      `json:"id,omitempty"`
	UserID     int64      `json:"userId,omitempty"`
	UserName   string     `json:"userName,omitempty"`
	TotalItems int        `json:"totalItems,omitempty"`
	TotalPrice float64    `json:"totalPrice,omitempty"`
	Items      []CartItem `json:"items,omitempty"`
}

// Clone returns a deep copy so callers can't mutate shared state.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	out := *c
	if c.Items != nil {
		out.Items = make([]CartItem, len(c.Items))
		copy(out.Items, c.Items)
	}
	return &out
}

// FindItem returns the line for productID, if any.
func (c *Cart) FindItem(productID int64) (CartItem, bool) {
	if c == nil {
		return CartItem{}, false
	}
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

// CartItem is one line of a Cart.
type CartItem struct {
	ID           int64   `json:"id,omitempty"`
	CartID       int64   `json:"cartId,omitempty"`
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName,omitempty"`
	ProductImage string  `json:"productImage,omitempty"`
	PricePerItem float64 `json:"pricePerItem,omitempty"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"totalPrice,omitempty"`
}

// AddCartItemRequest is the exact body of an add-to-cart call.
type AddCartItemRequest struct {
	CartID    int64 `json:"cartId"`
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CreateCartRequest is the body of a create-cart call.
type CreateCartRequest struct {
	UserID int64 `json:"userId"`
}
