package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

var tokenFlag string

var erc20Cmd = &cobra.Command{
	Use:   "erc20 [public_address]",
	Short: "Show the balance of a fungible token",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		network, err := domain.ParseNetwork(networkFlag)
		if err != nil {
			fatal("Error parsing network", err)
		}
		token, err := domain.ParseToken(tokenFlag)
		if err != nil {
			fatal("Error parsing token", err)
		}

		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			fatal("Error initializing resolver", err)
		}
		defer a.Close()

		balance, err := a.Tokens.ERC20Balance(ctx, token, network, args[0])
		if err != nil {
			fatal("Error reading balance", err)
		}
		if err := printJSON(os.Stdout, balance); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

var stakeCmd = &cobra.Command{
	Use:   "stake [public_address]",
	Short: "Show the NECO staked by an account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		network, err := domain.ParseNetwork(networkFlag)
		if err != nil {
			fatal("Error parsing network", err)
		}

		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			fatal("Error initializing resolver", err)
		}
		defer a.Close()

		info, err := a.Tokens.StakedInfo(ctx, network, args[0])
		if err != nil {
			fatal("Error reading stake", err)
		}
		if err := printJSON(os.Stdout, info); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(erc20Cmd, stakeCmd)
	erc20Cmd.Flags().StringVarP(&networkFlag, "network", "n", string(domain.NetworkBSCMain), "Network name or chain id")
	erc20Cmd.Flags().StringVarP(&tokenFlag, "token", "t", string(domain.TokenNECO), "Token: neco, nfish or busd")
	stakeCmd.Flags().StringVarP(&networkFlag, "network", "n", string(domain.NetworkBSCMain), "Network name or chain id")
}
