package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theAriful7/storefront"
	"github.com/theAriful7/storefront/core"
	"github.com/theAriful7/storefront/pkg/cart"
	"github.com/theAriful7/storefront/pkg/catalog"
)

// app carries the global flags and the store built from them.
type app struct {
	configFile string
	apiURL     string
	userID     int64
	vendorID   int64
	logLevel   string
	yes        bool

	// extra is appended to the options built from flags
	extra []storefront.Option

	in    *bufio.Reader
	store *storefront.Store
}

func newRootCmd(in io.Reader, extra ...storefront.Option) *cobra.Command {
	a := &app{in: bufio.NewReader(in), extra: extra}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse and manage a storefront from the terminal",
		Version:       storefront.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if a.store == nil {
				return nil
			}
			return a.store.Close(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (.json, .yaml)")
	flags.StringVar(&a.apiURL, "api", "", "backend base URL")
	flags.Int64Var(&a.userID, "user", 0, "acting customer id")
	flags.Int64Var(&a.vendorID, "vendor", 0, "acting vendor id")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")
	flags.BoolVarP(&a.yes, "yes", "y", false, "do not ask before destructive actions")

	root.AddCommand(
		newProductsCmd(a),
		newCategoriesCmd(a),
		newCartCmd(a),
		newDashboardCmd(a),
	)
	return root
}

// open builds the store. Flags override the config file, which overrides
// the environment.
func (a *app) open(cmd *cobra.Command) error {
	var cfgOpts []core.Option
	if a.configFile != "" {
		cfgOpts = append(cfgOpts, core.WithConfigFile(a.configFile))
	}
	flags := cmd.Flags()
	if a.apiURL != "" {
		cfgOpts = append(cfgOpts, core.WithAPIBaseURL(a.apiURL))
	}
	if flags.Changed("user") {
		cfgOpts = append(cfgOpts, func(c *core.Config) error {
			c.Principal.UserID = a.userID
			return nil
		})
	}
	if flags.Changed("vendor") {
		cfgOpts = append(cfgOpts, func(c *core.Config) error {
			c.Principal.VendorID = a.vendorID
			return nil
		})
	}
	if a.logLevel != "" {
		cfgOpts = append(cfgOpts, core.WithLogLevel(a.logLevel))
	}

	opts := []storefront.Option{
		storefront.WithConfigOptions(cfgOpts...),
		storefront.WithLogOutput(cmd.ErrOrStderr()),
		storefront.WithCartNotifier(cart.NotifierFunc(func(_ context.Context, e cart.Event) {
			fmt.Fprintln(cmd.OutOrStdout(), e.Message())
		})),
	}
	store, err := storefront.New(cmd.Context(), append(opts, a.extra...)...)
	if err != nil {
		return err
	}
	a.store = store
	return nil
}

// confirmer asks on the command's output and reads y/N from stdin, unless
// --yes was given.
func (a *app) confirmer(out io.Writer) catalog.Confirmer {
	if a.yes {
		return catalog.AlwaysConfirm
	}
	return catalog.ConfirmFunc(func(_ context.Context, prompt string) bool {
		fmt.Fprintf(out, "%s [y/N]: ", prompt)
		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	})
}
