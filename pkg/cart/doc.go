// Package cart keeps the shared shopping cart of the current principal.
//
// The Cache is the single source of cart state for every screen. Screens
// subscribe to it and receive the current cart immediately, then each new
// cart as it is applied:
//
//	cache := cart.New(client.Carts, principal.NewStatic(1, 1))
//	if err := cache.Initialize(ctx); err != nil { ... }
//	updates, stop := cache.Subscribe()
//	defer stop()
//
// Mutations are server-first. AddToCart, UpdateQuantity, RemoveItem and
// ClearCart each issue one request followed by one reload; nothing is
// applied optimistically and nothing is retried. Reloads are numbered as
// they are issued and a response older than the last applied one is
// dropped, so a slow reload can never overwrite a newer cart.
package cart
