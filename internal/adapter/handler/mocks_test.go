package handler

import (
	"context"
	"fmt"
	"sync"

	"github.com/rl1809/nft-ownership/internal/core/domain"
	"github.com/rl1809/nft-ownership/internal/core/service"
)

const testAccount = "0x52908400098527886e0f7030069857d2e4169ee7"

type resolveCall struct {
	publicAddress string
	collection    domain.Collection
	network       domain.Network
}

type mockOwnership struct {
	mu        sync.Mutex
	calls     []resolveCall
	report    *domain.OwnershipReport
	metadata  domain.NFTMetadata
	lookups   []domain.Collection
	snapshots []domain.OwnershipSnapshot
	limit     int
	err       error
}

func (m *mockOwnership) ResolveOwnership(ctx context.Context, publicAddress string, collection domain.Collection, network domain.Network) (*domain.OwnershipReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, resolveCall{publicAddress, collection, network})
	if m.err != nil {
		return nil, m.err
	}
	if _, err := service.NormalizeAddress(publicAddress); err != nil {
		return nil, err
	}
	return m.report, nil
}

func (m *mockOwnership) Metadata(ctx context.Context, collection domain.Collection, network domain.Network, id domain.CatalogID) (domain.NFTMetadata, error) {
	m.mu.Lock()
	m.lookups = append(m.lookups, collection)
	m.mu.Unlock()
	if m.err != nil {
		return domain.NFTMetadata{}, m.err
	}
	md := m.metadata
	md.ID = id.String()
	return md, nil
}

func (m *mockOwnership) Snapshots(ctx context.Context, publicAddress string, limit int) ([]domain.OwnershipSnapshot, error) {
	m.mu.Lock()
	m.limit = limit
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshots, nil
}

type mockTokens struct {
	err error
}

func (m *mockTokens) ERC20Balance(ctx context.Context, token domain.Token, network domain.Network, publicAddress string) (domain.ERC20Token, error) {
	if m.err != nil {
		return domain.ERC20Token{}, m.err
	}
	return domain.ERC20Token{Symbol: fmt.Sprintf("%s@%s", token, network), Decimal: 18, Amount: "1000"}, nil
}

func (m *mockTokens) StakedInfo(ctx context.Context, network domain.Network, publicAddress string) (domain.StakedInfo, error) {
	if m.err != nil {
		return domain.StakedInfo{}, m.err
	}
	return domain.StakedInfo{PublicAddress: publicAddress, StakedAmount: "5", StakedTime: "60"}, nil
}

func sampleReport() *domain.OwnershipReport {
	return &domain.OwnershipReport{
		PublicAddress:   testAccount,
		Network:         domain.NetworkBSCMain,
		ContractAddress: "0xEA5534Bac1291676595223579517D35Ad9C382eE",
		Items: []domain.OwnershipItem{
			{ID: 10002, Amount: 3, Metadata: domain.NFTMetadata{Name: "Golden Rod"}},
		},
	}
}
