package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theAriful7/storefront/pkg/catalog"
	"github.com/theAriful7/storefront/pkg/model"
)

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product", "p"},
		Short:   "List, show and delete products",
	}
	cmd.AddCommand(newProductsListCmd(a), newProductsShowCmd(a), newProductsStockCmd(a), newProductsDeleteCmd(a))
	return cmd
}

func newProductsListCmd(a *app) *cobra.Command {
	var (
		filter   = catalog.DefaultProductFilter()
		search   string
		vendor   bool
		stock    string
		category string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Example: `  storefront products list --category 1 --min-price 100
  storefront products list --search shoe
  storefront products list --mine --stock LOW_STOCK`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if vendor {
				list := a.store.VendorProducts()
				if err := list.Load(ctx); err != nil {
					return err
				}
				if search != "" {
					if err := list.Search(ctx, search); err != nil {
						return err
					}
					return printProducts(cmd.OutOrStdout(), list.Products())
				}
				f := catalog.DefaultVendorFilter()
				f.Status = filter.Status
				if category != "" {
					f.Category = category
				}
				if stock != "" {
					f.Stock = catalog.StockBand(stock)
				}
				return printProducts(cmd.OutOrStdout(), list.ApplyFilters(f))
			}

			list := a.store.ProductList()
			if err := list.Load(ctx); err != nil {
				return err
			}
			if search != "" {
				if err := list.Search(ctx, search); err != nil {
					return err
				}
				return printProducts(cmd.OutOrStdout(), list.Products())
			}
			if filter.CategoryID != 0 {
				if err := list.SelectCategory(ctx, filter.CategoryID); err != nil {
					return err
				}
			}
			return printProducts(cmd.OutOrStdout(), list.ApplyFilters(filter))
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&filter.CategoryID, "category", 0, "category id")
	flags.Int64Var(&filter.SubCategoryID, "sub-category", 0, "sub-category id")
	flags.StringVar(&filter.Status, "status", catalog.All, "product status")
	flags.Float64Var(&filter.MinPrice, "min-price", catalog.DefaultMinPrice, "lowest price")
	flags.Float64Var(&filter.MaxPrice, "max-price", catalog.DefaultMaxPrice, "highest price, 0 for no limit")
	flags.StringVar(&filter.Brand, "brand", "", "brand substring")
	flags.StringVar(&search, "search", "", "search term")
	flags.BoolVar(&vendor, "mine", false, "only the acting vendor's products")
	flags.StringVar(&stock, "stock", "", "IN_STOCK, LOW_STOCK or OUT_OF_STOCK (with --mine)")
	flags.StringVar(&category, "category-name", "", "category name (with --mine)")
	return cmd
}

func newProductsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product",
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

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "ID\t%d\n", p.ID)
			fmt.Fprintf(w, "Name\t%s\n", p.Name)
			fmt.Fprintf(w, "Brand\t%s\n", p.Brand)
			fmt.Fprintf(w, "SKU\t%s\n", p.SKU)
			fmt.Fprintf(w, "Status\t%s\n", p.Status)
			fmt.Fprintf(w, "Category\t%s / %s\n", p.CategoryName, p.SubCategoryName)
			fmt.Fprintf(w, "Price\t%s\n", catalog.FormatMoney(decimal.NewFromFloat(p.Price)))
			if p.Discount > 0 {
				fmt.Fprintf(w, "Sale price\t%s (-%g%%)\n", catalog.FormatMoney(catalog.SalePrice(*p)), p.Discount)
			}
			fmt.Fprintf(w, "Stock\t%d (%s)\n", p.Stock, catalog.StockBandOf(p.Stock))
			fmt.Fprintf(w, "Image\t%s\n", a.store.PrimaryImage(*p))
			for _, spec := range p.Specifications {
				fmt.Fprintf(w, "%s\t%s\n", spec.Key, spec.Value)
			}
			if p.Description != "" {
				fmt.Fprintf(w, "\n%s\n", p.Description)
			}
			return w.Flush()
		},
	}
}

func newProductsStockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stock <id> <quantity>",
		Short: "Set the stock level of one of your products",
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
			saved, err := a.store.VendorProducts().SetStock(cmd.Context(), id, qty)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d in stock (%s)\n", saved.Name, saved.Stock, catalog.StockBandOf(saved.Stock))
			return nil
		},
	}
}

func newProductsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one of the acting vendor's products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			list := a.store.VendorProducts()
			if err := list.Delete(cmd.Context(), id, a.confirmer(cmd.OutOrStdout())); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted product %d\n", id)
			return nil
		},
	}
}

func printProducts(out io.Writer, products []model.Product) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBRAND\tCATEGORY\tPRICE\tSTOCK\tSTATUS")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			p.ID, p.Name, p.Brand, p.CategoryName, catalog.FormatMoney(catalog.SalePrice(p)), p.Stock, p.Status)
	}
	fmt.Fprintf(w, "\n%d products\n", len(products))
	return w.Flush()
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
