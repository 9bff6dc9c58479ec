package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rl1809/nft-ownership/internal/core/domain"
	"github.com/rl1809/nft-ownership/internal/port"
)

const (
	testAccount  = "0x52908400098527886E0F7030069857D2E4169EE7"
	testContract = "0xEA5534Bac1291676595223579517D35Ad9C382eE"
)

var errRPC = errors.New("rpc unavailable")

// Mock Ledger
type mockLedger struct {
	mu       sync.Mutex
	balances map[string]map[domain.CatalogID]uint64 // account -> id -> amount
	failing  map[domain.CatalogID]bool
	networks map[domain.Network]bool

	calls       atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	gate        chan struct{}
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		balances: make(map[string]map[domain.CatalogID]uint64),
		failing:  make(map[domain.CatalogID]bool),
		networks: map[domain.Network]bool{domain.NetworkBSCMain: true, domain.NetworkBSCTest: true},
	}
}

func (m *mockLedger) setBalance(account string, id domain.CatalogID, amount uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, _ := NormalizeAddress(account)
	if m.balances[key] == nil {
		m.balances[key] = make(map[domain.CatalogID]uint64)
	}
	m.balances[key][id] = amount
}

func (m *mockLedger) Supports(network domain.Network) bool {
	return m.networks[network]
}

func (m *mockLedger) BalanceOf(ctx context.Context, contract domain.ContractRef, account string, id domain.CatalogID) (uint64, error) {
	m.calls.Add(1)
	current := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.maxInFlight.Load()
		if current <= peak || m.maxInFlight.CompareAndSwap(peak, current) {
			break
		}
	}
	if m.gate != nil {
		<-m.gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing[id] {
		return 0, errRPC
	}
	return m.balances[account][id], nil
}

// Mock AddressResolver
type mockAddresses struct{}

func (mockAddresses) ContractAddressFor(contract domain.ContractType, network domain.Network) (string, error) {
	if network != domain.NetworkBSCMain && network != domain.NetworkBSCTest {
		return "", domain.ErrUnsupportedNetwork
	}
	return testContract, nil
}

// Mock MetadataSource
type mockSource struct {
	locatorCalls atomic.Int32
	fetchCalls   atomic.Int32

	mu        sync.Mutex
	failFetch int // number of fetches that fail before succeeding
	failAll   bool
	started   chan struct{}
	release   chan struct{}
}

func (m *mockSource) LocatorFor(ctx context.Context, id domain.CatalogID) (string, error) {
	m.locatorCalls.Add(1)
	return fmt.Sprintf("https://meta.example/%s.json", id), nil
}

func (m *mockSource) FetchMetadata(ctx context.Context, locator string) (domain.NFTMetadata, error) {
	m.fetchCalls.Add(1)
	if m.started != nil {
		select {
		case m.started <- struct{}{}:
		default:
		}
	}
	if m.release != nil {
		<-m.release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return domain.NFTMetadata{}, fmt.Errorf("%s: %w", locator, port.ErrFetchFailed)
	}
	if m.failFetch > 0 {
		m.failFetch--
		return domain.NFTMetadata{}, fmt.Errorf("%s: %w", locator, port.ErrFetchFailed)
	}
	return domain.NFTMetadata{
		Name:       "X",
		Attributes: []domain.Trait{{TraitType: "rarity", Value: "rare"}},
	}, nil
}

// Mock MetadataStore
type mockStore struct {
	mu      sync.Mutex
	entries map[string]domain.NFTMetadata
	sets    int
}

func newMockStore() *mockStore {
	return &mockStore{entries: make(map[string]domain.NFTMetadata)}
}

func (m *mockStore) GetMetadata(ctx context.Context, contract domain.ContractRef, id domain.CatalogID) (domain.NFTMetadata, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[contract.String()+"/"+id.String()]
	return v, ok, nil
}

func (m *mockStore) SetMetadata(ctx context.Context, contract domain.ContractRef, id domain.CatalogID, metadata domain.NFTMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[contract.String()+"/"+id.String()] = metadata
	m.sets++
	return nil
}

func newTestService(ledger *mockLedger, source *mockSource, opts OwnershipOptions) *OwnershipService {
	caches := NewCacheSet(func(domain.ContractRef) (port.MetadataSource, error) {
		return source, nil
	}, nil, nil)
	return NewOwnershipService(ledger, mockAddresses{}, caches, opts)
}

func testContractRef() domain.ContractRef {
	return domain.ContractRef{Network: domain.NetworkBSCMain, Address: testContract}
}
