package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/cart"
	"github.com/theAriful7/storefront/pkg/catalog"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the acting customer's cart",
		// Every cart subcommand starts from a loaded cart.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd); err != nil {
				return err
			}
			err := a.store.Cart.Initialize(cmd.Context())
			if err != nil && cmd.Name() == "show" && a.store.Cart.Stale() {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
				return nil
			}
			return err
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printCart(cmd.OutOrStdout(), a.store.Cart)
			},
		},
		&cobra.Command{
			Use:   "add <product-id>",
			Short: "Add one unit of a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				p, err := a.store.API.Products.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				if err := a.store.Cart.AddToCart(cmd.Context(), *p); err != nil {
					return err
				}
				return printCart(cmd.OutOrStdout(), a.store.Cart)
			},
		},
		&cobra.Command{
			Use:   "qty <item-id> <quantity>",
			Short: "Set the quantity of a cart item; 0 removes it",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				qty, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				if err := a.store.Cart.UpdateQuantity(cmd.Context(), id, qty); err != nil {
					return err
				}
				return printCart(cmd.OutOrStdout(), a.store.Cart)
			},
		},
		&cobra.Command{
			Use:     "rm <item-id>",
			Aliases: []string{"remove"},
			Short:   "Remove a cart item",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.store.Cart.RemoveItem(cmd.Context(), id); err != nil {
					return err
				}
				return printCart(cmd.OutOrStdout(), a.store.Cart)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every item",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				confirm := a.confirmer(cmd.OutOrStdout())
				if !confirm.Confirm(cmd.Context(), "Are you sure you want to clear your cart?") {
					return core.ErrCanceledByUser
				}
				return a.store.Cart.ClearCart(cmd.Context())
			},
		},
	)
	return cmd
}

func printCart(out io.Writer, c *cart.Cache) error {
	current := c.Current()
	if current == nil || len(current.Items) == 0 {
		fmt.Fprintln(out, "Your cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tPRICE\tQTY\tTOTAL")
	for _, item := range current.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			item.ID, item.ProductName,
			catalog.FormatMoney(catalog.LineTotal(item.PricePerItem, 1)),
			item.Quantity,
			catalog.FormatMoney(catalog.LineTotal(item.PricePerItem, item.Quantity)))
	}
	totals := c.Totals()
	fmt.Fprintf(w, "\t\t\t%d\t%s\n", totals.Items, catalog.FormatMoney(totals.Price))
	if c.Stale() {
		fmt.Fprintln(w, "(saved copy, backend unreachable)")
	}
	return w.Flush()
}
