package domain

import (
	"fmt"
	"strconv"
)

// Collection selects which fixed catalog of NFT ids an ownership lookup walks.
type Collection string

const (
	CollectionNecoFishing Collection = "neco_fishing"
	CollectionNamiLand    Collection = "namiland"
)

// wire codes used by the game clients
var collectionCodes = map[uint8]Collection{
	0: CollectionNecoFishing,
	1: CollectionNamiLand,
}

func Collections() []Collection {
	return []Collection{CollectionNecoFishing, CollectionNamiLand}
}

func (c Collection) String() string {
	return string(c)
}

func (c Collection) Valid() bool {
	return c == CollectionNecoFishing || c == CollectionNamiLand
}

// CollectionFromCode maps a game client code to a collection.
func CollectionFromCode(code uint8) (Collection, error) {
	c, ok := collectionCodes[code]
	if !ok {
		return "", fmt.Errorf("game client %d: %w", code, ErrUnsupportedCollection)
	}
	return c, nil
}

// ParseCollection accepts either a collection name or a game client code.
func ParseCollection(s string) (Collection, error) {
	if c := Collection(s); c.Valid() {
		return c, nil
	}
	if code, err := strconv.ParseUint(s, 10, 8); err == nil {
		return CollectionFromCode(uint8(code))
	}
	return "", fmt.Errorf("collection %q: %w", s, ErrUnsupportedCollection)
}

// CatalogID identifies one item type of an ERC1155 collection.
type CatalogID uint64

func (id CatalogID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func ParseCatalogID(s string) (CatalogID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("catalog id %q: %w", s, ErrInvalidCatalogID)
	}
	return CatalogID(v), nil
}
