package port

import (
	"context"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

// MetadataStore is the shared tier behind the in-process metadata cache.
type MetadataStore interface {
	// GetMetadata returns the stored metadata of an id, false on a miss
	GetMetadata(ctx context.Context, contract domain.ContractRef, id domain.CatalogID) (domain.NFTMetadata, bool, error)

	// SetMetadata stores metadata for an id without expiry
	SetMetadata(ctx context.Context, contract domain.ContractRef, id domain.CatalogID, metadata domain.NFTMetadata) error
}
