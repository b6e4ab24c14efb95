package main

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/theAriful7/storefront/pkg/forms"
)

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "c"},
		Short:   "Manage categories",
	}
	cmd.AddCommand(newCategoriesListCmd(a), newCategoriesCreateCmd(a), newCategoriesDeleteCmd(a))
	return cmd
}

func newCategoriesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := a.store.CategoryList()
			if err := list.Load(cmd.Context()); err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, c := range list.Categories() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.Description)
			}
			return w.Flush()
		},
	}
}

func newCategoriesCreateCmd(a *app) *cobra.Command {
	var values forms.CategoryValues
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			form := a.store.CategoryForm(nil)
			if err := form.Init(cmd.Context(), 0); err != nil {
				return err
			}
			form.Set(values, "name", "description")

			saved, err := form.Submit(cmd.Context())
			var invalid *forms.ValidationError
			if errors.As(err, &invalid) {
				names := make([]string, 0, len(invalid.Fields))
				for name := range invalid.Fields {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(out, "%s: %s\n", name, invalid.Fields[name])
				}
				return err
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Created category %d %q\n", saved.ID, saved.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&values.Name, "name", "", "category name")
	cmd.Flags().StringVar(&values.Description, "description", "", "category description")
	return cmd
}

func newCategoriesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			list := a.store.CategoryList()
			if err := list.Delete(cmd.Context(), id, a.confirmer(cmd.OutOrStdout())); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %d\n", id)
			return nil
		},
	}
}
