package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/rl1809/nft-ownership/internal/core/catalog"
	"github.com/rl1809/nft-ownership/internal/core/domain"
	"github.com/rl1809/nft-ownership/internal/metrics"
	"github.com/rl1809/nft-ownership/internal/port"
)

var ErrSnapshotsDisabled = errors.New("snapshot storage is not configured")

var tracer trace.Tracer = otel.Tracer("github.com/rl1809/nft-ownership/internal/core/service")

type OwnershipOptions struct {
	// MaxInFlight caps concurrent fan-out units per request. Zero runs one
	// unit per catalog id at once.
	MaxInFlight int
	// SortOrder of report items, SortLexical when empty.
	SortOrder SortOrder
	// SnapshotQueueSize is the buffer of the snapshot queue. Zero disables
	// snapshots.
	SnapshotQueueSize int
	// Snapshots serves snapshot listings and may be nil.
	Snapshots port.SnapshotRepository
	Logger    *slog.Logger
}

type OwnershipService struct {
	ledger    port.Ledger
	addresses port.AddressResolver
	caches    *CacheSet
	opts      OwnershipOptions
	logger    *slog.Logger

	mu            sync.RWMutex
	closed        bool
	snapshotQueue chan domain.OwnershipSnapshot
}

func NewOwnershipService(ledger port.Ledger, addresses port.AddressResolver, caches *CacheSet, opts OwnershipOptions) *OwnershipService {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SortOrder == "" {
		opts.SortOrder = SortLexical
	}

	s := &OwnershipService{
		ledger:    ledger,
		addresses: addresses,
		caches:    caches,
		opts:      opts,
		logger:    opts.Logger,
	}
	if opts.SnapshotQueueSize > 0 {
		s.snapshotQueue = make(chan domain.OwnershipSnapshot, opts.SnapshotQueueSize)
	}
	return s
}

// ResolveOwnership reports which catalog items of collection the account at
// publicAddress holds on network. Input errors are returned before any ledger
// call is made; per-item failures never fail the request.
func (s *OwnershipService) ResolveOwnership(ctx context.Context, publicAddress string, collection domain.Collection, network domain.Network) (*domain.OwnershipReport, error) {
	account, err := NormalizeAddress(publicAddress)
	if err != nil {
		return nil, err
	}
	contract, cache, err := s.contractFor(collection, network)
	if err != nil {
		return nil, err
	}
	ids, err := catalog.IDsFor(collection)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "OwnershipService.ResolveOwnership")
	defer span.End()
	span.SetAttributes(
		attribute.String("ownership.collection", collection.String()),
		attribute.String("ownership.network", network.String()),
		attribute.Int("ownership.catalog_size", len(ids)),
	)

	start := time.Now()
	results, wait := s.dispatch(ctx, contract, account, ids, cache)
	items := Aggregate(len(ids), results, s.opts.SortOrder, s.logger)
	wait()
	metrics.ResolutionDurationHistogram.WithLabelValues(collection.String(), network.String()).Observe(time.Since(start).Seconds())

	span.SetAttributes(attribute.Int("ownership.owned_items", len(items)))
	s.logger.Info("ownership resolved",
		"address", account,
		"collection", collection.String(),
		"network", network.String(),
		"owned", len(items),
		"duration", time.Since(start),
	)

	report := &domain.OwnershipReport{
		PublicAddress:   account,
		Network:         network,
		ContractAddress: contract.Address,
		Items:           items,
	}
	s.enqueueSnapshot(collection, *report)
	return report, nil
}

// Metadata returns the metadata of one item of collection on network.
func (s *OwnershipService) Metadata(ctx context.Context, collection domain.Collection, network domain.Network, id domain.CatalogID) (domain.NFTMetadata, error) {
	_, cache, err := s.contractFor(collection, network)
	if err != nil {
		return domain.NFTMetadata{}, err
	}

	ctx, span := tracer.Start(ctx, "OwnershipService.Metadata")
	defer span.End()
	span.SetAttributes(attribute.String("ownership.nft_id", id.String()))

	m, err := cache.Resolve(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.NFTMetadata{}, err
	}
	return m, nil
}

// Snapshots lists persisted reports of an address, newest first.
func (s *OwnershipService) Snapshots(ctx context.Context, publicAddress string, limit int) ([]domain.OwnershipSnapshot, error) {
	if s.opts.Snapshots == nil {
		return nil, ErrSnapshotsDisabled
	}
	account, err := NormalizeAddress(publicAddress)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.opts.Snapshots.ListSnapshots(ctx, account, limit)
}

func (s *OwnershipService) contractFor(collection domain.Collection, network domain.Network) (domain.ContractRef, *MetadataCache, error) {
	if !network.Valid() || !s.ledger.Supports(network) {
		return domain.ContractRef{}, nil, fmt.Errorf("network %q: %w", network, domain.ErrUnsupportedNetwork)
	}
	contractType, err := domain.ContractTypeForCollection(collection)
	if err != nil {
		return domain.ContractRef{}, nil, err
	}
	address, err := s.addresses.ContractAddressFor(contractType, network)
	if err != nil {
		return domain.ContractRef{}, nil, err
	}

	contract := domain.ContractRef{Network: network, Address: address}
	cache, err := s.caches.For(contract)
	if err != nil {
		return domain.ContractRef{}, nil, err
	}
	return contract, cache, nil
}

// dispatch starts one unit per id. Every unit sends exactly one completion on
// the returned channel, which is buffered for all of them so no unit blocks
// on a slow reader. wait returns once every unit has finished.
func (s *OwnershipService) dispatch(ctx context.Context, contract domain.ContractRef, account string, ids []domain.CatalogID, cache *MetadataCache) (<-chan domain.ItemResult, func()) {
	// dispatched units always run to completion
	ctx = context.WithoutCancel(ctx)

	results := make(chan domain.ItemResult, len(ids))
	done := make(chan struct{})

	var g errgroup.Group
	if s.opts.MaxInFlight > 0 {
		g.SetLimit(s.opts.MaxInFlight)
	}

	go func() {
		defer close(done)
		for _, id := range ids {
			g.Go(func() error {
				results <- s.resolveItem(ctx, contract, account, id, cache)
				return nil
			})
		}
		_ = g.Wait()
	}()

	return results, func() { <-done }
}

func (s *OwnershipService) resolveItem(ctx context.Context, contract domain.ContractRef, account string, id domain.CatalogID, cache *MetadataCache) domain.ItemResult {
	metrics.InFlightGauge.Inc()
	defer metrics.InFlightGauge.Dec()

	result := domain.ItemResult{ID: id}
	amount, err := s.ledger.BalanceOf(ctx, contract, account, id)
	if err != nil {
		result.BalanceErr = err
		return result
	}
	result.Amount = amount
	if amount == 0 {
		return result
	}
	result.Metadata, result.MetadataErr = cache.Resolve(ctx, id)
	return result
}

func (s *OwnershipService) enqueueSnapshot(collection domain.Collection, report domain.OwnershipReport) {
	if s.snapshotQueue == nil {
		return
	}

	snapshot := domain.OwnershipSnapshot{
		ID:         uuid.NewString(),
		Collection: collection,
		Report:     report,
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.snapshotQueue <- snapshot:
		metrics.SnapshotsTotal.WithLabelValues("queued").Inc()
	default:
		metrics.SnapshotsTotal.WithLabelValues("dropped").Inc()
		s.logger.Warn("snapshot queue full, dropping snapshot", "address", report.PublicAddress)
	}
}

// GetSnapshotQueue returns the queue workers persist snapshots from. It is nil
// when snapshots are disabled.
func (s *OwnershipService) GetSnapshotQueue() <-chan domain.OwnershipSnapshot {
	return s.snapshotQueue
}

// Close stops accepting snapshots and closes the snapshot queue.
func (s *OwnershipService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.snapshotQueue != nil {
		close(s.snapshotQueue)
	}
}

// NormalizeAddress validates a hex account address and returns it in
// lowercase 0x form.
func NormalizeAddress(publicAddress string) (string, error) {
	publicAddress = strings.TrimSpace(publicAddress)
	if !common.IsHexAddress(publicAddress) {
		return "", fmt.Errorf("%q: %w", publicAddress, domain.ErrInvalidAddress)
	}
	return strings.ToLower(common.HexToAddress(publicAddress).Hex()), nil
}
