// Package principal resolves who the SDK is acting for.
//
// Every component that needs the current customer or vendor id asks a
// Provider instead of assuming one. Static serves fixed ids from config;
// JWTProvider reads them from a bearer token's claims.
package principal

import (
	"context"
	"fmt"

	"github.com/theAriful7/storefront/core"
)

// Provider supplies the acting principal.
type Provider interface {
	// UserID returns the customer id owning the cart.
	UserID(ctx context.Context) (int64, error)
	// VendorID returns the vendor id used by vendor screens.
	VendorID(ctx context.Context) (int64, error)
	// Token returns the bearer token to send, or "" for none.
	Token(ctx context.Context) (string, error)
}

// Static is a Provider with fixed ids.
type Static struct {
	User   int64
	Vendor int64
	Bearer string
}

// NewStatic returns a Provider for the given ids.
func NewStatic(userID, vendorID int64) *Static {
	return &Static{User: userID, Vendor: vendorID}
}

// UserID implements Provider.
func (s *Static) UserID(ctx context.Context) (int64, error) {
	if s.User < 1 {
		return 0, fmt.Errorf("static principal has no user: %w", core.ErrNoPrincipal)
	}
	return s.User, nil
}

// VendorID implements Provider.
func (s *Static) VendorID(ctx context.Context) (int64, error) {
	if s.Vendor < 1 {
		return 0, fmt.Errorf("static principal has no vendor: %w", core.ErrNoPrincipal)
	}
	return s.Vendor, nil
}

// Token implements Provider.
func (s *Static) Token(ctx context.Context) (string, error) {
	return s.Bearer, nil
}

type contextKey struct{}

// WithProvider attaches p to ctx, overriding the configured provider for
// calls made with that context.
func WithProvider(ctx context.Context, p Provider) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the provider attached with WithProvider, or fallback.
func FromContext(ctx context.Context, fallback Provider) Provider {
	if p, ok := ctx.Value(contextKey{}).(Provider); ok && p != nil {
		return p
	}
	return fallback
}
