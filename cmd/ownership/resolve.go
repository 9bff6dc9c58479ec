package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [public_address]",
	Short: "Resolve the items an account holds",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		network, collection, err := parseTarget()
		if err != nil {
			fatal("Error parsing flags", err)
		}

		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			fatal("Error initializing resolver", err)
		}
		defer a.Close()

		report, err := a.Ownership.ResolveOwnership(ctx, args[0], collection, network)
		if err != nil {
			fatal("Error resolving ownership", err)
		}
		if err := printJSON(os.Stdout, report); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	addTargetFlags(resolveCmd)
}
