package port

import (
	"context"
	"errors"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

var (
	ErrFetchFailed = errors.New("metadata fetch failed")
	ErrParseFailed = errors.New("metadata parse failed")
)

type MetadataSource interface {
	// LocatorFor returns the metadata URI the contract publishes for an id
	LocatorFor(ctx context.Context, id domain.CatalogID) (string, error)

	// FetchMetadata downloads and parses the metadata document at a locator
	FetchMetadata(ctx context.Context, locator string) (domain.NFTMetadata, error)
}

// MetadataSourceFactory builds the metadata source of one contract.
type MetadataSourceFactory func(contract domain.ContractRef) (MetadataSource, error)
