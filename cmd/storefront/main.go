// Command storefront is a terminal client for the storefront backend.
//
//	storefront --api http://localhost:8080 products list --category 1
//	storefront --user 1 cart add 4
//	storefront --vendor 1 dashboard vendor
//
// Configuration comes from STOREFRONT_* variables, then --config, then flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
