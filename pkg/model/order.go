package model

// Order statuses used by the backend.
const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
)

// Order is a placed customer order.
type Order struct {
	ID              int64       `json:"id,omitempty"`
	OrderNumber     string      `json:"orderNumber,omitempty"`
	UserID          int64       `json:"userId"`
	CustomerName    string      `json:"customerName"`
	TotalAmount     float64     `json:"totalAmount,omitempty"`
	Status          string      `json:"status,omitempty"`
	OrderDate       *Timestamp  `json:"orderDate,omitempty"`
	ShippingAddress string      `json:"shippingAddress"`
	Items           []OrderItem `json:"items"`
}

// OrderItem is one line of an Order. Subtotal is computed by the backend.
type OrderItem struct {
	ID          int64   `json:"id,omitempty"`
	OrderID     int64   `json:"orderId,omitempty"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Subtotal    float64 `json:"subtotal,omitempty"`
}

// Payment records a payment against an order.
type Payment struct {
	ID            int64      `json:"id,omitempty"`
	OrderID       int64      `json:"orderId"`
	Amount        float64    `json:"amount"`
	PaymentMethod string     `json:"paymentMethod"`
	PaymentStatus string     `json:"paymentStatus,omitempty"`
	PaymentDate   *Timestamp `json:"paymentDate,omitempty"`
}

// Review is a user's rating and comment on a product.
type Review struct {
	ID          int64  `json:"id,omitempty"`
	UserID      int64  `json:"userId,omitempty"`
	ProductID   int64  `json:"productId,omitempty"`
	UserName    string `json:"userName,omitempty"`
	ProductName string `json:"productName,omitempty"`
	Comment     string `json:"comment"`
	Rating      int    `json:"rating"`
	IsActive    *bool  `json:"isActive,omitempty"`
}
