package domain

import (
	"fmt"
	"strconv"
)

type Network string

const (
	NetworkEthereumMainnet Network = "ethereum_mainnet"
	NetworkGoerliTestnet   Network = "goerli_testnet"
	NetworkBSCMain         Network = "bsc_main_network"
	NetworkBSCTest         Network = "bsc_test_network"
)

var chainIDs = map[Network]uint64{
	NetworkEthereumMainnet: 1,
	NetworkGoerliTestnet:   5,
	NetworkBSCMain:         56,
	NetworkBSCTest:         97,
}

// Networks lists every network the resolver knows about, in chain id order.
func Networks() []Network {
	return []Network{NetworkEthereumMainnet, NetworkGoerliTestnet, NetworkBSCMain, NetworkBSCTest}
}

// ChainID returns the EVM chain id, or 0 for an unknown network.
func (n Network) ChainID() uint64 {
	return chainIDs[n]
}

func (n Network) Valid() bool {
	_, ok := chainIDs[n]
	return ok
}

func (n Network) String() string {
	return string(n)
}

// NetworkFromChainID maps a wire chain id to a network.
func NetworkFromChainID(chainID uint64) (Network, error) {
	for network, id := range chainIDs {
		if id == chainID {
			return network, nil
		}
	}
	return "", fmt.Errorf("chain id %d: %w", chainID, ErrUnsupportedNetwork)
}

// ParseNetwork accepts either a network name or a decimal chain id.
func ParseNetwork(s string) (Network, error) {
	if n := Network(s); n.Valid() {
		return n, nil
	}
	if chainID, err := strconv.ParseUint(s, 10, 64); err == nil {
		return NetworkFromChainID(chainID)
	}
	return "", fmt.Errorf("network %q: %w", s, ErrUnsupportedNetwork)
}
