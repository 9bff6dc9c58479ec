package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/rl1809/nft-ownership/internal/core/domain"
	"github.com/rl1809/nft-ownership/internal/metrics"
	"github.com/rl1809/nft-ownership/internal/port"
)

const snapshotSaveTimeout = 5 * time.Second

// snapshotWorker persists snapshots until the queue is closed. A failed save
// is logged and the snapshot is dropped.
func snapshotWorker(id int, queue <-chan domain.OwnershipSnapshot, repo port.SnapshotRepository, logger *slog.Logger) {
	for snapshot := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), snapshotSaveTimeout)

		if err := repo.SaveSnapshot(ctx, snapshot); err != nil {
			metrics.SnapshotsTotal.WithLabelValues("failed").Inc()
			logger.Error("failed to save snapshot",
				"worker", id,
				"snapshot", snapshot.ID,
				"address", snapshot.Report.PublicAddress,
				"error", err,
			)
		} else {
			metrics.SnapshotsTotal.WithLabelValues("saved").Inc()
			logger.Debug("saved snapshot", "worker", id, "snapshot", snapshot.ID)
		}

		cancel()
	}
}
