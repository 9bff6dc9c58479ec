// Package chain reads ERC1155, ERC20 and staking contracts over JSON-RPC.
package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

// Ledger performs read-only contract calls on every configured network.
type Ledger struct {
	callers     map[domain.Network]bind.ContractCaller
	callTimeout time.Duration
	closers     []func()
}

// NewLedger wraps already connected callers. callTimeout bounds each contract
// call when positive.
func NewLedger(callers map[domain.Network]bind.ContractCaller, callTimeout time.Duration) *Ledger {
	return &Ledger{callers: callers, callTimeout: callTimeout}
}

// Dial connects one JSON-RPC client per network. Networks with an empty URL
// are left unsupported.
func Dial(ctx context.Context, urls map[domain.Network]string, callTimeout time.Duration) (*Ledger, error) {
	l := NewLedger(make(map[domain.Network]bind.ContractCaller), callTimeout)
	for network, url := range urls {
		if url == "" {
			continue
		}
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("dial %s rpc: %w", network, err)
		}
		l.callers[network] = client
		l.closers = append(l.closers, client.Close)
	}
	return l, nil
}

func (l *Ledger) Close() {
	for _, closeFn := range l.closers {
		closeFn()
	}
	l.closers = nil
}

func (l *Ledger) Supports(network domain.Network) bool {
	_, ok := l.callers[network]
	return ok
}

func (l *Ledger) BalanceOf(ctx context.Context, contract domain.ContractRef, account string, id domain.CatalogID) (uint64, error) {
	out, err := l.call(ctx, contract, erc1155ABI, "balanceOf", common.HexToAddress(account), new(big.Int).SetUint64(uint64(id)))
	if err != nil {
		return 0, err
	}
	balance, err := asBigInt(out)
	if err != nil {
		return 0, err
	}
	if !balance.IsUint64() {
		return 0, fmt.Errorf("balance of %s overflows uint64: %s", id, balance)
	}
	return balance.Uint64(), nil
}

// URI returns the raw ERC1155 uri of id, possibly containing the {id} template.
func (l *Ledger) URI(ctx context.Context, contract domain.ContractRef, id domain.CatalogID) (string, error) {
	out, err := l.call(ctx, contract, erc1155ABI, "uri", new(big.Int).SetUint64(uint64(id)))
	if err != nil {
		return "", err
	}
	uri, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("uri: unexpected result type %T", out)
	}
	return uri, nil
}

func (l *Ledger) Symbol(ctx context.Context, contract domain.ContractRef) (string, error) {
	out, err := l.call(ctx, contract, erc20ABI, "symbol")
	if err != nil {
		return "", err
	}
	symbol, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("symbol: unexpected result type %T", out)
	}
	return symbol, nil
}

func (l *Ledger) Decimals(ctx context.Context, contract domain.ContractRef) (uint8, error) {
	out, err := l.call(ctx, contract, erc20ABI, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := out.(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals: unexpected result type %T", out)
	}
	return decimals, nil
}

func (l *Ledger) TokenBalance(ctx context.Context, contract domain.ContractRef, account string) (string, error) {
	return l.callBigInt(ctx, contract, erc20ABI, "balanceOf", common.HexToAddress(account))
}

func (l *Ledger) StakedAmount(ctx context.Context, contract domain.ContractRef, account string) (string, error) {
	return l.callBigInt(ctx, contract, stakeABI, "getStakedNecoAmount", common.HexToAddress(account))
}

func (l *Ledger) StakedTime(ctx context.Context, contract domain.ContractRef, account string) (string, error) {
	return l.callBigInt(ctx, contract, stakeABI, "getStakedTimePeriod", common.HexToAddress(account))
}

func (l *Ledger) callBigInt(ctx context.Context, contract domain.ContractRef, parsed abi.ABI, method string, params ...any) (string, error) {
	out, err := l.call(ctx, contract, parsed, method, params...)
	if err != nil {
		return "", err
	}
	v, err := asBigInt(out)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// call runs a view method and returns its single output.
func (l *Ledger) call(ctx context.Context, contract domain.ContractRef, parsed abi.ABI, method string, params ...any) (any, error) {
	caller, ok := l.callers[contract.Network]
	if !ok {
		return nil, fmt.Errorf("network %q: %w", contract.Network, domain.ErrUnsupportedNetwork)
	}
	if !common.IsHexAddress(contract.Address) {
		return nil, fmt.Errorf("contract address %q is invalid", contract.Address)
	}

	if l.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.callTimeout)
		defer cancel()
	}

	bound := bind.NewBoundContract(common.HexToAddress(contract.Address), parsed, caller, nil, nil)
	var out []any
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, contract, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("call %s on %s: expected 1 result, got %d", method, contract, len(out))
	}
	return out[0], nil
}

func asBigInt(v any) (*big.Int, error) {
	n, ok := v.(*big.Int)
	if !ok || n == nil {
		return nil, fmt.Errorf("unexpected result type %T", v)
	}
	return n, nil
}
