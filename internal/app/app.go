// Package app wires configuration, adapters and services into a runnable
// ownership resolver shared by the server and the CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/rl1809/nft-ownership/internal/adapter/chain"
	"github.com/rl1809/nft-ownership/internal/adapter/metadata"
	"github.com/rl1809/nft-ownership/internal/adapter/storage"
	"github.com/rl1809/nft-ownership/internal/core/service"
	"github.com/rl1809/nft-ownership/internal/platform/config"
	"github.com/rl1809/nft-ownership/internal/port"
)

type Options struct {
	// Ledger replaces the JSON-RPC ledger dialed from the configuration.
	Ledger *chain.Ledger
	// Snapshots enables the snapshot queue, its store and its workers.
	Snapshots bool
}

type App struct {
	Config    config.Config
	Logger    *slog.Logger
	Ledger    *chain.Ledger
	Ownership *service.OwnershipService
	Tokens    *service.TokenService

	redis     *redis.Client
	db        *sql.DB
	workers   sync.WaitGroup
	closeOnce sync.Once
}

// NewLogger returns a text logger writing to w at level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// New builds the application. Snapshot workers start immediately when
// opts.Snapshots is set and stop on Close.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	sortOrder, err := service.ParseSortOrder(cfg.SortOrder)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger}

	addresses, err := chain.LoadAddressBook(cfg.AddressBook)
	if err != nil {
		return nil, err
	}

	a.Ledger = opts.Ledger
	if a.Ledger == nil {
		a.Ledger, err = chain.Dial(ctx, cfg.RPCURLs(), cfg.RPCTimeout)
		if err != nil {
			return nil, err
		}
	}

	var store port.MetadataStore
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, PoolSize: 100})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store = storage.NewRedisAdapter(a.redis)
		logger.Info("connected to redis", "addr", cfg.RedisAddr)
	}

	ownershipOpts := service.OwnershipOptions{
		MaxInFlight: cfg.MaxInFlight,
		SortOrder:   sortOrder,
		Logger:      logger,
	}
	var snapshots *storage.SQLAdapter
	if opts.Snapshots && cfg.SnapshotDriver != "" {
		a.db, err = storage.OpenSQL(ctx, cfg.SnapshotDriver, cfg.SnapshotDSN)
		if err != nil {
			a.Close()
			return nil, err
		}
		snapshots = storage.NewSQLAdapter(a.db)
		ownershipOpts.Snapshots = snapshots
		ownershipOpts.SnapshotQueueSize = cfg.QueueSize
		logger.Info("snapshot store ready", "driver", cfg.SnapshotDriver)
	}

	fetcher := metadata.NewFetcher(metadata.Config{
		RequestTimeout: cfg.MetadataTimeout,
		RateLimit:      rate.Limit(cfg.MetadataRateLimit),
		RateBurst:      cfg.MetadataRateBurst,
		IPFSGateway:    cfg.IPFSGateway,
	})
	caches := service.NewCacheSet(metadata.NewSourceFactory(a.Ledger, fetcher), store, logger)

	a.Ownership = service.NewOwnershipService(a.Ledger, addresses, caches, ownershipOpts)
	a.Tokens = service.NewTokenService(a.Ledger, a.Ledger, addresses, logger)

	if snapshots != nil && ownershipOpts.SnapshotQueueSize > 0 {
		for i := 0; i < cfg.WorkerCount; i++ {
			a.workers.Add(1)
			go func(id int) {
				defer a.workers.Done()
				snapshotWorker(id, a.Ownership.GetSnapshotQueue(), snapshots, logger)
			}(i)
		}
		logger.Info("started snapshot workers", "count", cfg.WorkerCount)
	}
	return a, nil
}

// Ping checks the backing stores.
func (a *App) Ping(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("snapshot db: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close drains the snapshot queue and releases every connection.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.Ownership != nil {
			a.Ownership.Close()
		}
		a.workers.Wait()

		if a.redis != nil {
			a.redis.Close()
		}
		if a.db != nil {
			a.db.Close()
		}
		if a.Ledger != nil {
			a.Ledger.Close()
		}
	})
}
