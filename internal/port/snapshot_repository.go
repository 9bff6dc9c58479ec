package port

import (
	"context"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

type SnapshotRepository interface {
	// SaveSnapshot persists one resolved ownership report
	SaveSnapshot(ctx context.Context, snapshot domain.OwnershipSnapshot) error

	// ListSnapshots returns the newest snapshots of an address, newest first
	ListSnapshots(ctx context.Context, publicAddress string, limit int) ([]domain.OwnershipSnapshot, error)
}
