package cart

import "context"

// EventKind names a completed cart mutation.
type EventKind string

const (
	ItemAdded       EventKind = "item_added"
	QuantityChanged EventKind = "quantity_changed"
	ItemRemoved     EventKind = "item_removed"
	Cleared         EventKind = "cleared"
)

// Event describes a mutation that reached the backend.
type Event struct {
	Kind        EventKind
	ProductID   int64
	ProductName string
	ItemID      int64
	Quantity    int
}

// Message is the user-facing toast text for e.
func (e Event) Message() string {
	switch e.Kind {
	case ItemAdded:
		return e.ProductName + " added to cart!"
	case QuantityChanged:
		return "Cart updated"
	case ItemRemoved:
		return "Item removed from cart"
	case Cleared:
		return "Cart cleared"
	}
	return ""
}

// Notifier is told about successful cart mutations.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, e Event)

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, e Event) {
	f(ctx, e)
}
