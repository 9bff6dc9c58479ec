// Package config holds the process configuration read from OWNERSHIP_*
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

type Config struct {
	HTTPAddr string `env:"OWNERSHIP_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr string `env:"OWNERSHIP_GRPC_ADDR" envDefault:":50051"`

	EthereumRPCURL string        `env:"OWNERSHIP_RPC_ETHEREUM_MAINNET"`
	GoerliRPCURL   string        `env:"OWNERSHIP_RPC_GOERLI_TESTNET"`
	BSCMainRPCURL  string        `env:"OWNERSHIP_RPC_BSC_MAIN" envDefault:"https://bsc-dataseed.binance.org"`
	BSCTestRPCURL  string        `env:"OWNERSHIP_RPC_BSC_TEST" envDefault:"https://data-seed-prebsc-1-s1.binance.org:8545"`
	RPCTimeout     time.Duration `env:"OWNERSHIP_RPC_TIMEOUT" envDefault:"10s"`
	AddressBook    string        `env:"OWNERSHIP_ADDRESS_BOOK"`

	RedisAddr string `env:"OWNERSHIP_REDIS_ADDR"`

	// SnapshotDriver is mysql, sqlite or empty to disable snapshots.
	SnapshotDriver string `env:"OWNERSHIP_SNAPSHOT_DRIVER" envDefault:"sqlite"`
	SnapshotDSN    string `env:"OWNERSHIP_SNAPSHOT_DSN" envDefault:"ownership_snapshots.db"`
	WorkerCount    int    `env:"OWNERSHIP_WORKER_COUNT" envDefault:"4"`
	QueueSize      int    `env:"OWNERSHIP_QUEUE_SIZE" envDefault:"1024"`

	MetadataTimeout   time.Duration `env:"OWNERSHIP_METADATA_TIMEOUT" envDefault:"10s"`
	MetadataRateLimit float64       `env:"OWNERSHIP_METADATA_RATE_LIMIT" envDefault:"20"`
	MetadataRateBurst int           `env:"OWNERSHIP_METADATA_RATE_BURST" envDefault:"40"`
	IPFSGateway       string        `env:"OWNERSHIP_IPFS_GATEWAY" envDefault:"https://ipfs.io/ipfs/"`

	MaxInFlight int    `env:"OWNERSHIP_MAX_IN_FLIGHT" envDefault:"0"`
	SortOrder   string `env:"OWNERSHIP_SORT_ORDER" envDefault:"lexical"`
	LogLevel    string `env:"OWNERSHIP_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.SnapshotDriver {
	case "", "mysql", "sqlite":
	default:
		return fmt.Errorf("config: unsupported snapshot driver %q", c.SnapshotDriver)
	}
	if c.SnapshotDriver != "" && c.SnapshotDSN == "" {
		return fmt.Errorf("config: snapshot driver %s needs a dsn", c.SnapshotDriver)
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("config: worker count must be positive, got %d", c.WorkerCount)
	}
	if c.QueueSize < 0 || c.MaxInFlight < 0 {
		return fmt.Errorf("config: queue size and max in-flight must not be negative")
	}
	if c.MetadataRateLimit <= 0 || c.MetadataRateBurst <= 0 {
		return fmt.Errorf("config: metadata rate limit and burst must be positive")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// RPCURLs returns the configured JSON-RPC endpoint of every network.
func (c Config) RPCURLs() map[domain.Network]string {
	return map[domain.Network]string{
		domain.NetworkEthereumMainnet: c.EthereumRPCURL,
		domain.NetworkGoerliTestnet:   c.GoerliRPCURL,
		domain.NetworkBSCMain:         c.BSCMainRPCURL,
		domain.NetworkBSCTest:         c.BSCTestRPCURL,
	}
}

func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
