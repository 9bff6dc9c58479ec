package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/rl1809/nft-ownership/internal/core/domain"
	"github.com/rl1809/nft-ownership/internal/port"
)

// URIReader reads the metadata URI an ERC1155 contract publishes for an id.
type URIReader interface {
	URI(ctx context.Context, contract domain.ContractRef, id domain.CatalogID) (string, error)
}

// Source is the metadata source of one contract.
type Source struct {
	contract domain.ContractRef
	uris     URIReader
	fetcher  *Fetcher
}

func NewSource(contract domain.ContractRef, uris URIReader, fetcher *Fetcher) *Source {
	return &Source{contract: contract, uris: uris, fetcher: fetcher}
}

// NewSourceFactory returns a factory building one Source per contract.
func NewSourceFactory(uris URIReader, fetcher *Fetcher) port.MetadataSourceFactory {
	return func(contract domain.ContractRef) (port.MetadataSource, error) {
		return NewSource(contract, uris, fetcher), nil
	}
}

func (s *Source) LocatorFor(ctx context.Context, id domain.CatalogID) (string, error) {
	uri, err := s.uris.URI(ctx, s.contract, id)
	if err != nil {
		return "", fmt.Errorf("%w: uri of %s: %w", port.ErrFetchFailed, id, err)
	}
	if uri == "" {
		return "", fmt.Errorf("%w: contract %s has no uri for %s", port.ErrFetchFailed, s.contract, id)
	}
	return ExpandIDTemplate(uri, id), nil
}

func (s *Source) FetchMetadata(ctx context.Context, locator string) (domain.NFTMetadata, error) {
	return s.fetcher.Fetch(ctx, locator)
}

// ExpandIDTemplate substitutes the ERC1155 {id} placeholder with the id as
// 64 lowercase hex characters.
func ExpandIDTemplate(uri string, id domain.CatalogID) string {
	if !strings.Contains(uri, "{id}") {
		return uri
	}
	return strings.ReplaceAll(uri, "{id}", fmt.Sprintf("%064x", uint64(id)))
}
