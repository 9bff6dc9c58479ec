package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

const testOwner = "0x52908400098527886e0f7030069857d2e4169ee7"

func getSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenSQL(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func getMySQLDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/ownership"
	}

	db, err := OpenSQL(context.Background(), DriverMySQL, dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	return db
}

func newSnapshot(createdAt time.Time, items ...domain.OwnershipItem) domain.OwnershipSnapshot {
	if items == nil {
		items = []domain.OwnershipItem{}
	}
	return domain.OwnershipSnapshot{
		ID:         uuid.NewString(),
		Collection: domain.CollectionNecoFishing,
		CreatedAt:  createdAt,
		Report: domain.OwnershipReport{
			PublicAddress:   testOwner,
			Network:         domain.NetworkBSCTest,
			ContractAddress: testContract.Address,
			Items:           items,
		},
	}
}

func TestSQLAdapter_SaveAndList(t *testing.T) {
	adapter := NewSQLAdapter(getSQLiteDB(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	older := newSnapshot(base, domain.OwnershipItem{ID: 10002, Amount: 1})
	newer := newSnapshot(base.Add(time.Minute),
		domain.OwnershipItem{ID: 10002, Amount: 3, Metadata: domain.NFTMetadata{Name: "Golden Rod"}},
		domain.OwnershipItem{ID: 16001, Amount: 18446744073709551615},
	)
	require.NoError(t, adapter.SaveSnapshot(ctx, older))
	require.NoError(t, adapter.SaveSnapshot(ctx, newer))

	got, err := adapter.ListSnapshots(ctx, testOwner, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, newer.ID, got[0].ID)
	require.Equal(t, older.ID, got[1].ID)
	require.True(t, newer.CreatedAt.Equal(got[0].CreatedAt))
	require.Equal(t, domain.CollectionNecoFishing, got[0].Collection)
	require.Equal(t, domain.NetworkBSCTest, got[0].Report.Network)
	require.Equal(t, newer.Report.Items, got[0].Report.Items)
}

func TestSQLAdapter_ListRespectsLimitAndAddress(t *testing.T) {
	adapter := NewSQLAdapter(getSQLiteDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, adapter.SaveSnapshot(ctx, newSnapshot(base.Add(time.Duration(i)*time.Second))))
	}

	got, err := adapter.ListSnapshots(ctx, testOwner, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.True(t, base.Add(4*time.Second).Equal(got[0].CreatedAt))

	got, err = adapter.ListSnapshots(ctx, "0x0000000000000000000000000000000000000001", 3)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSQLAdapter_EmptyReportKeepsEmptyItems(t *testing.T) {
	adapter := NewSQLAdapter(getSQLiteDB(t))
	ctx := context.Background()

	require.NoError(t, adapter.SaveSnapshot(ctx, newSnapshot(time.Now().UTC())))

	got, err := adapter.ListSnapshots(ctx, testOwner, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Report.Items)
	require.Empty(t, got[0].Report.Items)
}

func TestSQLAdapter_DuplicateIDRollsBack(t *testing.T) {
	db := getSQLiteDB(t)
	adapter := NewSQLAdapter(db)
	ctx := context.Background()

	snap := newSnapshot(time.Now().UTC(), domain.OwnershipItem{ID: 10001, Amount: 1})
	require.NoError(t, adapter.SaveSnapshot(ctx, snap))
	require.Error(t, adapter.SaveSnapshot(ctx, snap))

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ownership_snapshot_items WHERE snapshot_id = ?`, snap.ID).Scan(&count))
	require.Equal(t, 1, count)
}

func TestOpenSQL_UnknownDriver(t *testing.T) {
	_, err := OpenSQL(context.Background(), "postgres", "")
	require.Error(t, err)
}

func TestSQLAdapter_MySQL(t *testing.T) {
	db := getMySQLDB(t)
	defer db.Close()

	ctx := context.Background()
	adapter := NewSQLAdapter(db)

	snap := newSnapshot(time.Now().UTC().Truncate(time.Millisecond), domain.OwnershipItem{ID: 20001, Amount: 2})
	snap.Report.PublicAddress = "0x000000000000000000000000000000000000beef"
	require.NoError(t, adapter.SaveSnapshot(ctx, snap))

	got, err := adapter.ListSnapshots(ctx, snap.Report.PublicAddress, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, snap.ID, got[0].ID)
	require.Equal(t, snap.Report.Items, got[0].Report.Items)

	// Cleanup
	db.ExecContext(ctx, `DELETE FROM ownership_snapshot_items WHERE snapshot_id = ?`, snap.ID)
	db.ExecContext(ctx, `DELETE FROM ownership_snapshots WHERE id = ?`, snap.ID)
}
