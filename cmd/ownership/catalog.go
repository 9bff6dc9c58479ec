package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rl1809/nft-ownership/internal/core/catalog"
	"github.com/rl1809/nft-ownership/internal/core/domain"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog [collection]",
	Short: "List the catalog ids of a collection",
	Long:  `List the fixed catalog ids walked for a collection. Without an argument every collection is listed.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		collections := domain.Collections()
		if len(args) == 1 {
			c, err := domain.ParseCollection(args[0])
			if err != nil {
				fatal("Error parsing collection", err)
			}
			collections = []domain.Collection{c}
		}

		listing := make(map[domain.Collection][]domain.CatalogID, len(collections))
		for _, c := range collections {
			ids, err := catalog.IDsFor(c)
			if err != nil {
				fatal("Error reading catalog", err)
			}
			listing[c] = ids
		}

		if catalogJSON {
			if err := printJSON(os.Stdout, listing); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		for _, c := range collections {
			fmt.Printf("%s (%d ids)\n", c, len(listing[c]))
			for _, id := range listing[c] {
				fmt.Printf("  %s\n", id)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "Output in JSON format")
}
