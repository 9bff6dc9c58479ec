package port

import (
	"context"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

type Ledger interface {
	// Supports reports whether the ledger has a client for a network
	Supports(network domain.Network) bool

	// BalanceOf returns how many units of an ERC1155 id the account holds
	BalanceOf(ctx context.Context, contract domain.ContractRef, account string, id domain.CatalogID) (uint64, error)
}

type AddressResolver interface {
	// ContractAddressFor returns the hex address of a contract on a network
	ContractAddressFor(contract domain.ContractType, network domain.Network) (string, error)
}

type TokenLedger interface {
	// Symbol returns the ERC20 symbol of a token contract
	Symbol(ctx context.Context, contract domain.ContractRef) (string, error)

	// Decimals returns the ERC20 decimals of a token contract
	Decimals(ctx context.Context, contract domain.ContractRef) (uint8, error)

	// TokenBalance returns the ERC20 balance of an account as a decimal string
	TokenBalance(ctx context.Context, contract domain.ContractRef, account string) (string, error)

	// StakedAmount returns the NECO staked by an account as a decimal string
	StakedAmount(ctx context.Context, contract domain.ContractRef, account string) (string, error)

	// StakedTime returns how long an account has been staking as a decimal string
	StakedTime(ctx context.Context, contract domain.ContractRef, account string) (string, error)
}
