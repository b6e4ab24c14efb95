package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/theAriful7/storefront/pkg/catalog"
	"github.com/theAriful7/storefront/pkg/model"
)

func newDashboardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the vendor or admin dashboard",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "vendor",
			Short: "Figures of the acting vendor",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				d := a.store.VendorDashboard()
				if err := d.Load(cmd.Context()); err != nil {
					return err
				}
				s := d.Stats()

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "Products\t%d (%d this month)\n", s.TotalProducts, s.ProductsThisMonth)
				fmt.Fprintf(w, "Orders\t%d (%d pending)\n", s.TotalOrders, s.PendingOrders)
				fmt.Fprintf(w, "Revenue\t%s\n", catalog.FormatMoney(s.TotalRevenue))
				fmt.Fprintf(w, "Rating\t%s (%d reviews)\n", s.AverageRating.StringFixed(1), s.TotalReviews)
				if len(s.RecentOrders) > 0 {
					fmt.Fprintln(w, "\nORDER\tCUSTOMER\tAMOUNT\tSTATUS\tDATE")
					for _, o := range s.RecentOrders {
						fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
							o.OrderNumber, o.CustomerName, catalog.FormatMoney(o.Amount), o.Status, o.Date)
					}
				}
				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "admin",
			Short: "Catalogue summary",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				d := a.store.AdminDashboard()
				if err := d.Load(cmd.Context()); err != nil {
					return err
				}
				s := d.Summary()

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintf(w, "Products\t%d\n", s.TotalProducts)
				for _, status := range model.ProductStatuses {
					fmt.Fprintf(w, "  %s\t%d\n", status, s.Count(status))
				}
				fmt.Fprintf(w, "Categories\t%d\n", s.Categories)
				fmt.Fprintf(w, "Sub-categories\t%d\n", s.SubCategories)
				return w.Flush()
			},
		},
	)
	return cmd
}
