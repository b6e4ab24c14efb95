package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/internal/fakeshop"
)

type cli struct {
	t    *testing.T
	shop *fakeshop.Server
	url  string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	shop := fakeshop.New()
	srv := httptest.NewServer(shop)
	t.Cleanup(srv.Close)
	return &cli{t: t, shop: shop, url: srv.URL}
}

// run executes one command line with stdin and returns what it printed.
func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	root := newRootCmd(strings.NewReader(stdin))
	var out, logs bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(append([]string{"--api", c.url, "--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProductsList(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "products", "list", "--category", "2", "--max-price", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Running Shoe")
	assert.Contains(t, out, "Sandal")
	assert.NotContains(t, out, "Leather Boot")
	assert.Contains(t, out, "2 products")

	out, err = c.run("", "products", "list", "--search", "phone")
	require.NoError(t, err)
	assert.Contains(t, out, "Pixel Phone")
	assert.Contains(t, out, "Budget Phone")
	assert.Contains(t, out, "2 products")

	out, err = c.run("", "--vendor", "1", "products", "list", "--mine", "--stock", "OUT_OF_STOCK")
	require.NoError(t, err)
	assert.Contains(t, out, "Ultrabook")
	assert.Contains(t, out, "1 products")
}

func TestProductsShow(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "products", "show", "1")
	require.NoError(t, err)
	assert.Regexp(t, `Name\s+Pixel Phone`, out)
	assert.Regexp(t, `Price\s+499.00`, out)
	assert.Regexp(t, `Sale price\s+449.10 \(-10%\)`, out)
	assert.Regexp(t, `Stock\s+25 \(IN_STOCK\)`, out)

	_, err = c.run("", "products", "show", "999")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = c.run("", "products", "show", "abc")
	assert.Error(t, err)
}

func TestProductsDeleteAsksFirst(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("n\n", "products", "delete", "6")
	assert.ErrorIs(t, err, core.ErrCanceledByUser)
	assert.Contains(t, out, "[y/N]")
	assert.Empty(t, c.shop.RequestsTo(http.MethodDelete, "/api/products"))

	out, err = c.run("y\n", "products", "delete", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted product 6")
	_, err = c.shop.Store.GetProduct(6)
	assert.Error(t, err)
}

func TestProductsStock(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "--vendor", "1", "products", "stock", "3", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Ultrabook now has 7 in stock (LOW_STOCK)")

	p, err := c.shop.Store.GetProduct(3)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, 1299.0, p.Price)

	_, err = c.run("", "--vendor", "2", "products", "stock", "3", "7")
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = c.run("", "--vendor", "1", "products", "stock", "3", "many")
	assert.Error(t, err)
}

func TestCategories(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "categories", "create", "--name", "Home", "--description", "Furniture")
	require.NoError(t, err)
	assert.Contains(t, out, `"Home"`)

	out, err = c.run("", "categories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Electronics")
	assert.Contains(t, out, "Furniture")

	out, err = c.run("", "categories", "create", "--name", "X")
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Contains(t, out, "name: Must be at least 2 characters")

	var homeID int64
	for _, cat := range c.shop.Store.ListCategories() {
		if cat.Name == "Home" {
			homeID = cat.ID
		}
	}
	require.NotZero(t, homeID)

	_, err = c.run("\n", "categories", "delete", strconv.FormatInt(homeID, 10))
	assert.ErrorIs(t, err, core.ErrCanceledByUser)

	out, err = c.run("yes\n", "categories", "delete", strconv.FormatInt(homeID, 10))
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted category")

	// Electronics still has sub-categories.
	_, err = c.run("", "--yes", "categories", "delete", "1")
	assert.ErrorIs(t, err, core.ErrConflict)
}

func TestCart(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "--user", "1", "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty")

	out, err = c.run("", "--user", "1", "cart", "add", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Running Shoe added to cart!")
	assert.Contains(t, out, "80.00")

	cart, err := c.shop.Store.GetCartByUser(1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	itemID := strconv.FormatInt(cart.Items[0].ID, 10)

	out, err = c.run("", "--user", "1", "cart", "qty", itemID, "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Cart updated")
	assert.Contains(t, out, "240.00")

	_, err = c.run("no\n", "--user", "1", "cart", "clear")
	assert.ErrorIs(t, err, core.ErrCanceledByUser)

	out, err = c.run("", "--user", "1", "--yes", "cart", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cart cleared")

	out, err = c.run("", "--user", "1", "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty")
}

func TestDashboards(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("", "--vendor", "1", "dashboard", "vendor")
	require.NoError(t, err)
	assert.Regexp(t, `Products\s+6`, out)
	assert.Regexp(t, `Orders\s+2 \(1 pending\)`, out)
	assert.Regexp(t, `Revenue\s+678.00`, out)
	assert.Contains(t, out, "ORD-1")
	assert.Contains(t, out, "Demo Customer")

	out, err = c.run("", "dashboard", "admin")
	require.NoError(t, err)
	assert.Regexp(t, `ACTIVE\s+3`, out)
	assert.Regexp(t, `Categories\s+2`, out)
	assert.Regexp(t, `Sub-categories\s+3`, out)
}
