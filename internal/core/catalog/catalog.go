// Package catalog holds the fixed item catalogs of the supported game
// collections.
package catalog

import (
	"fmt"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

var necoFishingIDs = []domain.CatalogID{
	10001, 10002, 10003, 10004, 10005, 10006, 10007,
	11001, 11002, 11003, 11004, 11005, 11006, 11007,
	12001, 12002, 12003,
	13001, 13002, 13003, 13004, 13005, 13006,
	14001, 14002,
	15001, 15002, 15003, 15004, 15005, 15006, 15007, 15008,
	15009, 15010, 15011, 15012, 15013, 15014, 15015, 15016,
	16001, 16002, 16003, 16004, 16005, 16006, 16007, 16008,
	16009, 16010, 16011, 16012, 16013, 16014, 16015, 16016,
}

// TODO: replace with the published NamiLand item ids once the collection lists them.
var namiLandIDs = []domain.CatalogID{
	20001, 20002, 20003, 20004, 20005, 20006, 20007, 20008, 20009, 20010, 20011, 20012,
	21001, 21002, 21003, 21004, 21005, 21006, 21007, 21008, 21009, 21010, 21011, 21012,
	22001, 22002, 22003, 22004, 22005, 22006, 22007, 22008, 22009, 22010, 22011, 22012,
	23001, 23002, 23003, 23004, 23005, 23006, 23007, 23008, 23009, 23010, 23011, 23012,
}

// IDsFor returns the catalog of a collection in its canonical order. The
// returned slice is a copy and may be modified by the caller.
func IDsFor(c domain.Collection) ([]domain.CatalogID, error) {
	var ids []domain.CatalogID
	switch c {
	case domain.CollectionNecoFishing:
		ids = necoFishingIDs
	case domain.CollectionNamiLand:
		ids = namiLandIDs
	default:
		return nil, fmt.Errorf("catalog for %q: %w", c, domain.ErrUnsupportedCollection)
	}
	return append([]domain.CatalogID(nil), ids...), nil
}

// Contains reports whether id belongs to the catalog of c.
func Contains(c domain.Collection, id domain.CatalogID) bool {
	ids, err := IDsFor(c)
	if err != nil {
		return false
	}
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
