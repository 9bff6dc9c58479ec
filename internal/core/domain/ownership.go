package domain

import "time"

// ContractRef addresses a contract on a specific network.
type ContractRef struct {
	Network Network
	Address string
}

func (r ContractRef) String() string {
	return string(r.Network) + ":" + r.Address
}

type OwnershipItem struct {
	ID       CatalogID   `json:"nft_id,string"`
	Amount   uint64      `json:"amount"`
	Metadata NFTMetadata `json:"nft_metadata"`
}

// ItemResult is the completion of one fan-out unit. Failures are carried as
// values so the aggregator applies the failure policy in one place.
type ItemResult struct {
	ID          CatalogID
	Amount      uint64
	Metadata    NFTMetadata
	BalanceErr  error
	MetadataErr error
}

type OwnershipReport struct {
	PublicAddress   string          `json:"public_address"`
	Network         Network         `json:"network"`
	ContractAddress string          `json:"contract_address"`
	Items           []OwnershipItem `json:"ownerships"`
}

// OwnershipSnapshot is a persisted copy of a resolved report.
type OwnershipSnapshot struct {
	ID         string          `json:"id"`
	Collection Collection      `json:"collection"`
	Report     OwnershipReport `json:"report"`
	CreatedAt  time.Time       `json:"created_at"`
}
