package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rl1809/nft-ownership/internal/app"
	"github.com/rl1809/nft-ownership/internal/core/domain"
	"github.com/rl1809/nft-ownership/internal/platform/config"
)

var (
	verbose        bool
	networkFlag    string
	collectionFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ownership",
	Short: "Resolve NFT ownership of game item collections",
	Long: `ownership queries ERC1155 game item contracts for the items an account holds,
attaches their off-chain metadata and prints the result as JSON.

RPC endpoints, metadata fetching and the contract address book are configured
through OWNERSHIP_* environment variables.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(app.NewLogger(os.Stderr, logLevel(verbose)))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// logLevel reads OWNERSHIP_LOG_LEVEL; -v forces debug.
func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	cfg, err := config.Load()
	if err != nil {
		return slog.LevelInfo
	}
	level, err := cfg.Level()
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// addTargetFlags registers the --network and --collection flags on cmd.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&networkFlag, "network", "n", string(domain.NetworkBSCMain), "Network name or chain id")
	cmd.Flags().StringVarP(&collectionFlag, "collection", "c", string(domain.CollectionNecoFishing), "Collection name or game client code")
}

func parseTarget() (domain.Network, domain.Collection, error) {
	network, err := domain.ParseNetwork(networkFlag)
	if err != nil {
		return "", "", err
	}
	collection, err := domain.ParseCollection(collectionFlag)
	if err != nil {
		return "", "", err
	}
	return network, collection, nil
}

// newApp builds the resolver from the environment. Snapshots are not
// persisted from the CLI.
func newApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, slog.Default(), app.Options{})
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
