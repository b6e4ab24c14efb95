package principal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theAriful7/storefront/core"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()
	p := NewStatic(4, 9)

	userID, err := p.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), userID)

	vendorID, err := p.VendorID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), vendorID)

	_, err = NewStatic(0, 1).UserID(ctx)
	assert.True(t, errors.Is(err, core.ErrNoPrincipal))
}

func TestJWTProviderVerified(t *testing.T) {
	token, err := Sign(Claims{
		UserID:   12,
		VendorID: 3,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}, "s3cret")
	require.NoError(t, err)

	p := NewJWTProvider("Bearer "+token, "s3cret")
	ctx := context.Background()

	userID, err := p.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), userID)

	vendorID, err := p.VendorID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), vendorID)

	bearer, err := p.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, bearer)
}

func TestJWTProviderRejects(t *testing.T) {
	expired, err := Sign(Claims{
		UserID:         1,
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Hour).Unix()},
	}, "s3cret")
	require.NoError(t, err)

	valid, err := Sign(Claims{UserID: 1}, "s3cret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", expired, "s3cret"},
		{"expired unverified", expired, ""},
		{"garbage", "not-a-token", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJWTProvider(tt.token, tt.secret).UserID(context.Background())
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrNoPrincipal))
		})
	}
}

func TestJWTProviderVendorFallback(t *testing.T) {
	ctx := context.Background()

	vendorToken, err := Sign(Claims{UserID: 8, Role: "VENDOR"}, "issuer-key")
	require.NoError(t, err)
	vendorID, err := NewJWTProvider(vendorToken, "").VendorID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), vendorID)

	customerToken, err := Sign(Claims{UserID: 8, Role: "CUSTOMER"}, "issuer-key")
	require.NoError(t, err)
	_, err = NewJWTProvider(customerToken, "").VendorID(ctx)
	assert.True(t, errors.Is(err, core.ErrNoPrincipal))
}

func TestContextOverride(t *testing.T) {
	fallback := NewStatic(1, 1)
	override := NewStatic(2, 2)

	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	ctx := WithProvider(context.Background(), override)
	assert.Same(t, override, FromContext(ctx, fallback))
}
