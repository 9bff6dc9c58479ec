package chain

import (
	"fmt"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

var knownContractTypes = map[domain.ContractType]bool{
	domain.ContractNECO:            true,
	domain.ContractNFISH:           true,
	domain.ContractBUSD:            true,
	domain.ContractNecoNFT:         true,
	domain.ContractNamiLandItemNFT: true,
	domain.ContractStakeNecoForFee: true,
}

// AddressBook maps contract types to deployed addresses per network.
type AddressBook struct {
	mu      sync.RWMutex
	entries map[domain.Network]map[domain.ContractType]string
}

// DefaultAddressBook returns the BSC deployments of the Neco Fishing
// contracts. NamiLand contracts have to be configured.
func DefaultAddressBook() *AddressBook {
	return &AddressBook{entries: map[domain.Network]map[domain.ContractType]string{
		domain.NetworkBSCMain: {
			domain.ContractBUSD:            "0x2D6C8229E1e14F4D35037F977e5486EE1Bfa0190",
			domain.ContractNECO:            "0xd23891FC1A515A88C571064637502e3766819e2d",
			domain.ContractNFISH:           "0xa0c72B1F89531b6BD61C640d03Bd4507773C0cfC",
			domain.ContractNecoNFT:         "0xEA5534Bac1291676595223579517D35Ad9C382eE",
			domain.ContractStakeNecoForFee: "0x8bfB9140658632239f8a1450955cB5bD7Ce586ED",
		},
		domain.NetworkBSCTest: {
			domain.ContractBUSD:            "0x2D6C8229E1e14F4D35037F977e5486EE1Bfa0190",
			domain.ContractNECO:            "0xafA98d54481a9aE468AB21b9268609fF50795795",
			domain.ContractNFISH:           "0xa0c72B1F89531b6BD61C640d03Bd4507773C0cfC",
			domain.ContractNecoNFT:         "0xEB1C424A31490A9B141126838a3c625647f22BDc",
			domain.ContractStakeNecoForFee: "0xa4329D80BE20813CbfeF5B2e593CA2893441E2dd",
		},
	}}
}

// LoadAddressBook returns the default book extended by the YAML file at path.
// An empty path yields the defaults.
func LoadAddressBook(path string) (*AddressBook, error) {
	book := DefaultAddressBook()
	if path == "" {
		return book, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read address book: %w", err)
	}
	if err := book.Merge(data); err != nil {
		return nil, fmt.Errorf("address book %s: %w", path, err)
	}
	return book, nil
}

// Merge adds or replaces entries from a YAML document of the form
//
//	bsc_main_network:
//	  neco_nft: "0x..."
func (b *AddressBook) Merge(data []byte) error {
	var doc map[string]map[string]string
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for networkName, contracts := range doc {
		network := domain.Network(networkName)
		if !network.Valid() {
			return fmt.Errorf("network %q: %w", networkName, domain.ErrUnsupportedNetwork)
		}
		if b.entries[network] == nil {
			b.entries[network] = make(map[domain.ContractType]string)
		}
		for typeName, address := range contracts {
			contractType := domain.ContractType(typeName)
			if !knownContractTypes[contractType] {
				return fmt.Errorf("unknown contract type %q", typeName)
			}
			if !common.IsHexAddress(address) {
				return fmt.Errorf("%s/%s: invalid address %q", networkName, typeName, address)
			}
			b.entries[network][contractType] = common.HexToAddress(address).Hex()
		}
	}
	return nil
}

func (b *AddressBook) ContractAddressFor(contractType domain.ContractType, network domain.Network) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	contracts, ok := b.entries[network]
	if !ok {
		return "", fmt.Errorf("no contracts on %q: %w", network, domain.ErrUnsupportedNetwork)
	}
	address, ok := contracts[contractType]
	if ok {
		return address, nil
	}
	switch contractType {
	case domain.ContractNecoNFT, domain.ContractNamiLandItemNFT:
		return "", fmt.Errorf("%s on %s: %w", contractType, network, domain.ErrUnsupportedCollection)
	case domain.ContractNECO, domain.ContractNFISH, domain.ContractBUSD:
		return "", fmt.Errorf("%s on %s: %w", contractType, network, domain.ErrUnsupportedToken)
	}
	return "", fmt.Errorf("%s on %s: %w", contractType, network, domain.ErrUnsupportedNetwork)
}
