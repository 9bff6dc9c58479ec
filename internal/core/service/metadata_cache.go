package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rl1809/nft-ownership/internal/core/domain"
	"github.com/rl1809/nft-ownership/internal/metrics"
	"github.com/rl1809/nft-ownership/internal/port"
)

var ErrMetadataUnavailable = errors.New("metadata unavailable")

// MetadataCache memoizes the metadata locator and the parsed metadata of every
// catalog id of one contract. Entries live for the lifetime of the cache and
// are never refreshed.
//
// The lock only guards map access; it is never held across a source call.
// Concurrent misses on the same id share one fetch.
type MetadataCache struct {
	contract domain.ContractRef
	source   port.MetadataSource
	store    port.MetadataStore
	logger   *slog.Logger

	mu       sync.RWMutex
	locators map[domain.CatalogID]string
	metadata map[domain.CatalogID]domain.NFTMetadata

	sf singleflight.Group
}

// NewMetadataCache creates an empty cache in front of source. store is an
// optional shared tier and may be nil.
func NewMetadataCache(contract domain.ContractRef, source port.MetadataSource, store port.MetadataStore, logger *slog.Logger) *MetadataCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetadataCache{
		contract: contract,
		source:   source,
		store:    store,
		logger:   logger.With("contract", contract.String()),
		locators: make(map[domain.CatalogID]string),
		metadata: make(map[domain.CatalogID]domain.NFTMetadata),
	}
}

// Get returns cached metadata without touching the source.
func (c *MetadataCache) Get(id domain.CatalogID) (domain.NFTMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.metadata[id]
	if !ok {
		return domain.NFTMetadata{}, false
	}
	return m.Clone(), true
}

// Len returns the number of ids with cached metadata.
func (c *MetadataCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.metadata)
}

// Resolve returns the metadata of id, fetching and caching it on a miss.
// Failures are wrapped in ErrMetadataUnavailable and are not cached.
func (c *MetadataCache) Resolve(ctx context.Context, id domain.CatalogID) (domain.NFTMetadata, error) {
	if m, ok := c.Get(id); ok {
		metrics.MetadataCacheTotal.WithLabelValues(metrics.CacheResultHit).Inc()
		return m, nil
	}
	metrics.MetadataCacheTotal.WithLabelValues(metrics.CacheResultMiss).Inc()

	// the flight is shared by every waiter; none of them may cancel it
	fetchCtx := context.WithoutCancel(ctx)
	v, err, shared := c.sf.Do("metadata:"+id.String(), func() (any, error) {
		return c.populate(fetchCtx, id)
	})
	if shared {
		metrics.MetadataCacheTotal.WithLabelValues(metrics.CacheResultShare).Inc()
	}
	if err != nil {
		return domain.NFTMetadata{}, err
	}
	return v.(domain.NFTMetadata).Clone(), nil
}

// Locator returns the metadata URI of id, asking the source on a miss.
func (c *MetadataCache) Locator(ctx context.Context, id domain.CatalogID) (string, error) {
	if locator, ok := c.cachedLocator(id); ok {
		return locator, nil
	}

	v, err, _ := c.sf.Do("locator:"+id.String(), func() (any, error) {
		if locator, ok := c.cachedLocator(id); ok {
			return locator, nil
		}
		locator, err := c.source.LocatorFor(ctx, id)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.locators[id] = locator
		c.mu.Unlock()
		return locator, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *MetadataCache) populate(ctx context.Context, id domain.CatalogID) (domain.NFTMetadata, error) {
	// a previous flight may have finished between Get and Do
	if m, ok := c.Get(id); ok {
		return m, nil
	}

	if c.store != nil {
		m, ok, err := c.store.GetMetadata(ctx, c.contract, id)
		switch {
		case err != nil:
			c.logger.Warn("metadata store read failed", "id", id.String(), "error", err)
		case ok:
			metrics.MetadataCacheTotal.WithLabelValues(metrics.CacheResultStore).Inc()
			c.setMetadata(id, m)
			return m, nil
		}
	}

	locator, err := c.Locator(ctx, id)
	if err != nil {
		return domain.NFTMetadata{}, fmt.Errorf("%w: locator for %s: %w", ErrMetadataUnavailable, id, err)
	}

	m, err := c.source.FetchMetadata(ctx, locator)
	if err != nil {
		return domain.NFTMetadata{}, fmt.Errorf("%w: fetch %s: %w", ErrMetadataUnavailable, locator, err)
	}
	c.setMetadata(id, m)
	c.logger.Debug("metadata cached", "id", id.String(), "locator", locator)

	if c.store != nil {
		if err := c.store.SetMetadata(ctx, c.contract, id, m); err != nil {
			c.logger.Warn("metadata store write failed", "id", id.String(), "error", err)
		}
	}
	return m, nil
}

func (c *MetadataCache) cachedLocator(id domain.CatalogID) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	locator, ok := c.locators[id]
	return locator, ok
}

func (c *MetadataCache) setMetadata(id domain.CatalogID, m domain.NFTMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadata[id] = m.Clone()
}

// CacheSet hands out one MetadataCache per contract, creating caches on first
// use. Caches are kept for the lifetime of the set.
type CacheSet struct {
	newSource port.MetadataSourceFactory
	store     port.MetadataStore
	logger    *slog.Logger

	mu     sync.Mutex
	caches map[domain.ContractRef]*MetadataCache
}

func NewCacheSet(newSource port.MetadataSourceFactory, store port.MetadataStore, logger *slog.Logger) *CacheSet {
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheSet{
		newSource: newSource,
		store:     store,
		logger:    logger,
		caches:    make(map[domain.ContractRef]*MetadataCache),
	}
}

// For returns the cache of contract.
func (s *CacheSet) For(contract domain.ContractRef) (*MetadataCache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cache, ok := s.caches[contract]; ok {
		return cache, nil
	}
	source, err := s.newSource(contract)
	if err != nil {
		return nil, fmt.Errorf("metadata source for %s: %w", contract, err)
	}
	cache := NewMetadataCache(contract, source, s.store, s.logger)
	s.caches[contract] = cache
	return cache, nil
}
