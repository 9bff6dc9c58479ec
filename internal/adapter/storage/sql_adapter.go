package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

var migrations = map[string][]string{
	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS ownership_snapshots (
			id VARCHAR(36) PRIMARY KEY,
			public_address VARCHAR(42) NOT NULL,
			collection VARCHAR(32) NOT NULL,
			network VARCHAR(32) NOT NULL,
			contract_address VARCHAR(42) NOT NULL,
			created_at BIGINT NOT NULL,
			INDEX idx_snapshots_address_created (public_address, created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS ownership_snapshot_items (
			snapshot_id VARCHAR(36) NOT NULL,
			position INT NOT NULL,
			nft_id BIGINT UNSIGNED NOT NULL,
			amount VARCHAR(20) NOT NULL,
			metadata TEXT NOT NULL,
			PRIMARY KEY (snapshot_id, position)
		)`,
	},
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS ownership_snapshots (
			id TEXT PRIMARY KEY,
			public_address TEXT NOT NULL,
			collection TEXT NOT NULL,
			network TEXT NOT NULL,
			contract_address TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_address_created
			ON ownership_snapshots (public_address, created_at)`,
		`CREATE TABLE IF NOT EXISTS ownership_snapshot_items (
			snapshot_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			nft_id INTEGER NOT NULL,
			amount TEXT NOT NULL,
			metadata TEXT NOT NULL,
			PRIMARY KEY (snapshot_id, position)
		)`,
	},
}

// SQLAdapter persists ownership snapshots in MySQL or SQLite.
type SQLAdapter struct {
	db *sql.DB
}

func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

// OpenSQL opens and pings a snapshot database and creates its tables.
func OpenSQL(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if _, ok := migrations[driver]; !ok {
		return nil, fmt.Errorf("unsupported snapshot driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := Migrate(ctx, db, driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	statements, ok := migrations[driver]
	if !ok {
		return fmt.Errorf("unsupported snapshot driver %q", driver)
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", driver, err)
		}
	}
	return nil
}

func (s *SQLAdapter) SaveSnapshot(ctx context.Context, snapshot domain.OwnershipSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	report := snapshot.Report
	_, err = tx.ExecContext(ctx, `
		INSERT INTO ownership_snapshots (id, public_address, collection, network, contract_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		snapshot.ID, report.PublicAddress, string(snapshot.Collection), string(report.Network),
		report.ContractAddress, snapshot.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	for position, item := range report.Items {
		metadata, err := json.Marshal(item.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata of %s: %w", item.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ownership_snapshot_items (snapshot_id, position, nft_id, amount, metadata)
			VALUES (?, ?, ?, ?, ?)`,
			snapshot.ID, position, int64(item.ID), strconv.FormatUint(item.Amount, 10), string(metadata),
		)
		if err != nil {
			return fmt.Errorf("insert snapshot item: %w", err)
		}
	}

	return tx.Commit()
}

func (s *SQLAdapter) ListSnapshots(ctx context.Context, publicAddress string, limit int) ([]domain.OwnershipSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, public_address, collection, network, contract_address, created_at
		FROM ownership_snapshots
		WHERE public_address = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, publicAddress, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}

	var snapshots []domain.OwnershipSnapshot
	for rows.Next() {
		var (
			snap       domain.OwnershipSnapshot
			collection string
			network    string
			createdAt  int64
		)
		if err := rows.Scan(&snap.ID, &snap.Report.PublicAddress, &collection, &network,
			&snap.Report.ContractAddress, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Collection = domain.Collection(collection)
		snap.Report.Network = domain.Network(network)
		snap.CreatedAt = time.UnixMilli(createdAt).UTC()
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	rows.Close()

	for i := range snapshots {
		items, err := s.loadItems(ctx, snapshots[i].ID)
		if err != nil {
			return nil, err
		}
		snapshots[i].Report.Items = items
	}
	return snapshots, nil
}

func (s *SQLAdapter) loadItems(ctx context.Context, snapshotID string) ([]domain.OwnershipItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT nft_id, amount, metadata
		FROM ownership_snapshot_items
		WHERE snapshot_id = ?
		ORDER BY position`, snapshotID,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshot items: %w", err)
	}
	defer rows.Close()

	items := []domain.OwnershipItem{}
	for rows.Next() {
		var (
			id       int64
			amount   string
			metadata string
		)
		if err := rows.Scan(&id, &amount, &metadata); err != nil {
			return nil, fmt.Errorf("scan snapshot item: %w", err)
		}
		item := domain.OwnershipItem{ID: domain.CatalogID(id)}
		if item.Amount, err = strconv.ParseUint(amount, 10, 64); err != nil {
			return nil, fmt.Errorf("snapshot %s: amount %q: %w", snapshotID, amount, err)
		}
		if err := json.Unmarshal([]byte(metadata), &item.Metadata); err != nil {
			return nil, fmt.Errorf("snapshot %s: decode metadata: %w", snapshotID, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
