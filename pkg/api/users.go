package api

import (
	"context"
	"net/http"

	"github.com/theAriful7/storefront/pkg/model"
)

// UserClient manages /api/users.
type UserClient struct {
	c *Client
}

const usersPath = "/api/users"

// Create creates a user.
func (uc *UserClient) Create(ctx context.Context, req model.UserRequest) (*model.User, error) {
	var out model.User
	if err := uc.c.do(ctx, request{resource: "users", method: http.MethodPost, path: usersPath, body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// List returns every user.
func (uc *UserClient) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := uc.c.do(ctx, request{resource: "users", method: http.MethodGet, path: usersPath}, &out)
	return out, err
}

// Get returns one user.
func (uc *UserClient) Get(ctx context.Context, id int64) (*model.User, error) {
	var out model.User
	if err := uc.c.do(ctx, request{resource: "users", method: http.MethodGet, path: usersPath + "/" + pathID(id)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces a user.
func (uc *UserClient) Update(ctx context.Context, id int64, req model.UserRequest) (*model.User, error) {
	var out model.User
	if err := uc.c.do(ctx, request{resource: "users", method: http.MethodPut, path: usersPath + "/" + pathID(id), body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete deletes a user.
func (uc *UserClient) Delete(ctx context.Context, id int64) error {
	return uc.c.do(ctx, request{resource: "users", method: http.MethodDelete, path: usersPath + "/" + pathID(id)}, nil)
}

// AuthClient manages /api/auth.
type AuthClient struct {
	c *Client
}

// Login authenticates with email and password.
func (ac *AuthClient) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	var out model.User
	if err := ac.c.do(ctx, request{resource: "auth", method: http.MethodPost, path: "/api/auth/login", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account.
func (ac *AuthClient) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	var out model.User
	if err := ac.c.do(ctx, request{resource: "auth", method: http.MethodPost, path: "/api/auth/register", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
