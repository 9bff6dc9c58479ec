package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata [nft_id]",
	Short: "Fetch the metadata of one catalog item",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		network, collection, err := parseTarget()
		if err != nil {
			fatal("Error parsing flags", err)
		}
		id, err := domain.ParseCatalogID(args[0])
		if err != nil {
			fatal("Error parsing nft id", err)
		}

		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			fatal("Error initializing resolver", err)
		}
		defer a.Close()

		metadata, err := a.Ownership.Metadata(ctx, collection, network, id)
		if err != nil {
			fatal("Error fetching metadata", err)
		}
		if err := printJSON(os.Stdout, metadata); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(metadataCmd)
	addTargetFlags(metadataCmd)
}
