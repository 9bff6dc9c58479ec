package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rl1809/nft-ownership/internal/core/domain"
	"github.com/rl1809/nft-ownership/internal/port"
)

const unknownSymbol = "unknown"

// TokenService answers single-call fungible token queries. Each field falls
// back to a default when its ledger call fails.
type TokenService struct {
	ledger    port.TokenLedger
	networks  port.Ledger
	addresses port.AddressResolver
	logger    *slog.Logger
}

func NewTokenService(ledger port.TokenLedger, networks port.Ledger, addresses port.AddressResolver, logger *slog.Logger) *TokenService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenService{ledger: ledger, networks: networks, addresses: addresses, logger: logger}
}

func (s *TokenService) ERC20Balance(ctx context.Context, token domain.Token, network domain.Network, publicAddress string) (domain.ERC20Token, error) {
	account, err := NormalizeAddress(publicAddress)
	if err != nil {
		return domain.ERC20Token{}, err
	}
	if _, err := domain.ParseToken(string(token)); err != nil {
		return domain.ERC20Token{}, err
	}
	contract, err := s.contract(domain.ContractTypeForToken(token), network)
	if err != nil {
		return domain.ERC20Token{}, err
	}

	result := domain.ERC20Token{Symbol: unknownSymbol, Amount: "0"}
	var g errgroup.Group
	g.Go(func() error {
		if symbol, err := s.ledger.Symbol(ctx, contract); err == nil {
			result.Symbol = symbol
		} else {
			s.logger.Debug("symbol query failed", "token", token, "error", err)
		}
		return nil
	})
	g.Go(func() error {
		if decimals, err := s.ledger.Decimals(ctx, contract); err == nil {
			result.Decimal = decimals
		} else {
			s.logger.Debug("decimals query failed", "token", token, "error", err)
		}
		return nil
	})
	g.Go(func() error {
		if amount, err := s.ledger.TokenBalance(ctx, contract, account); err == nil {
			result.Amount = amount
		} else {
			s.logger.Debug("balance query failed", "token", token, "error", err)
		}
		return nil
	})
	_ = g.Wait()
	return result, nil
}

func (s *TokenService) StakedInfo(ctx context.Context, network domain.Network, publicAddress string) (domain.StakedInfo, error) {
	account, err := NormalizeAddress(publicAddress)
	if err != nil {
		return domain.StakedInfo{}, err
	}
	contract, err := s.contract(domain.ContractStakeNecoForFee, network)
	if err != nil {
		return domain.StakedInfo{}, err
	}

	info := domain.StakedInfo{PublicAddress: account, StakedAmount: "0", StakedTime: "0"}
	var g errgroup.Group
	g.Go(func() error {
		if amount, err := s.ledger.StakedAmount(ctx, contract, account); err == nil {
			info.StakedAmount = amount
		} else {
			s.logger.Debug("staked amount query failed", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		if period, err := s.ledger.StakedTime(ctx, contract, account); err == nil {
			info.StakedTime = period
		} else {
			s.logger.Debug("staked time query failed", "error", err)
		}
		return nil
	})
	_ = g.Wait()
	return info, nil
}

func (s *TokenService) contract(contractType domain.ContractType, network domain.Network) (domain.ContractRef, error) {
	if !network.Valid() || !s.networks.Supports(network) {
		return domain.ContractRef{}, fmt.Errorf("network %q: %w", network, domain.ErrUnsupportedNetwork)
	}
	address, err := s.addresses.ContractAddressFor(contractType, network)
	if err != nil {
		return domain.ContractRef{}, err
	}
	return domain.ContractRef{Network: network, Address: address}, nil
}
