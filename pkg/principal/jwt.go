package principal

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dgrijalva/jwt-go"

	"github.com/theAriful7/storefront/core"
)

// Claims are the storefront claims carried by a bearer token.
type Claims struct {
	UserID   int64  `json:"userId"`
	VendorID int64  `json:"vendorId,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.StandardClaims
}

// JWTProvider derives the principal from an HS256 token. With an empty
// secret the signature is not checked, which suits tokens already verified
// by the backend at login.
type JWTProvider struct {
	token  string
	secret []byte

	once   sync.Once
	claims *Claims
	err    error
}

// NewJWTProvider returns a provider for token. A leading "Bearer " is
// stripped.
func NewJWTProvider(token, secret string) *JWTProvider {
	token = strings.TrimSpace(token)
	if len(token) > 7 && strings.EqualFold(token[:7], "bearer ") {
		token = token[7:]
	}
	return &JWTProvider{token: token, secret: []byte(secret)}
}

// Claims parses the token once and returns its claims.
func (p *JWTProvider) Claims() (*Claims, error) {
	p.once.Do(func() {
		p.claims, p.err = p.parse()
	})
	return p.claims, p.err
}

func (p *JWTProvider) parse() (*Claims, error) {
	if p.token == "" {
		return nil, fmt.Errorf("empty token: %w", core.ErrNoPrincipal)
	}

	claims := &Claims{}
	if len(p.secret) == 0 {
		if _, _, err := new(jwt.Parser).ParseUnverified(p.token, claims); err != nil {
			return nil, fmt.Errorf("parse token: %v: %w", err, core.ErrNoPrincipal)
		}
		if err := claims.Valid(); err != nil {
			return nil, fmt.Errorf("token claims: %v: %w", err, core.ErrNoPrincipal)
		}
		return claims, nil
	}

	token, err := jwt.ParseWithClaims(p.token, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("verify token: %v: %w", err, core.ErrNoPrincipal)
	}
	return claims, nil
}

// UserID implements Provider.
func (p *JWTProvider) UserID(ctx context.Context) (int64, error) {
	claims, err := p.Claims()
	if err != nil {
		return 0, err
	}
	if claims.UserID < 1 {
		return 0, fmt.Errorf("token has no userId claim: %w", core.ErrNoPrincipal)
	}
	return claims.UserID, nil
}

// VendorID implements Provider. Tokens without a vendorId claim fall back to
// the user id, as vendor accounts are users with the VENDOR role.
func (p *JWTProvider) VendorID(ctx context.Context) (int64, error) {
	claims, err := p.Claims()
	if err != nil {
		return 0, err
	}
	if claims.VendorID > 0 {
		return claims.VendorID, nil
	}
	if claims.UserID > 0 && strings.EqualFold(claims.Role, "VENDOR") {
		return claims.UserID, nil
	}
	return 0, fmt.Errorf("token has no vendor identity: %w", core.ErrNoPrincipal)
}

// Token implements Provider.
func (p *JWTProvider) Token(ctx context.Context) (string, error) {
	return p.token, nil
}

// Sign creates an HS256 token for claims. Used by the fake backend and tests.
func Sign(claims Claims, secret string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
