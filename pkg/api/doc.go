// Package api is the typed HTTP client for the storefront backend.
//
// A single Client owns the transport, the bearer-token principal, logging
// and telemetry; each backend resource is reached through a field:
//
//	client, err := api.New("http://localhost:8080",
//	    api.WithLogger(log),
//	    api.WithPrincipal(principal.NewStatic(1, 1)),
//	)
//	products, err := client.Products.Filter(ctx, api.ProductQuery{Brand: "acme"})
//	cart, err := client.Carts.GetByUser(ctx, 1)
//
// Every call takes a context, opens a client span, stamps correlation
// headers, and logs its outcome. Non-2xx responses become *APIError, which
// unwraps to core.ErrNotFound, core.ErrConflict or core.ErrRequestFailed.
// Network failures wrap core.ErrConnectionFailed. Nothing is retried.
//
// The client performs no referential checks: deleting a category that
// still has sub-categories is a plain DELETE and the backend decides.
package api
