package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

type envTestConfig struct {
	Port int `env:"OWNERSHIP_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("OWNERSHIP_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.GRPCAddr != ":50051" {
		t.Errorf("unexpected listen addresses %s %s", cfg.HTTPAddr, cfg.GRPCAddr)
	}
	if cfg.SnapshotDriver != "sqlite" || cfg.WorkerCount != 4 {
		t.Errorf("unexpected snapshot settings %+v", cfg)
	}
	if cfg.RPCTimeout != 10*time.Second {
		t.Errorf("unexpected rpc timeout %v", cfg.RPCTimeout)
	}
	if cfg.SortOrder != "lexical" {
		t.Errorf("unexpected sort order %q", cfg.SortOrder)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("OWNERSHIP_RPC_ETHEREUM_MAINNET", "https://eth.example")
	t.Setenv("OWNERSHIP_MAX_IN_FLIGHT", "8")
	t.Setenv("OWNERSHIP_LOG_LEVEL", "debug")
	t.Setenv("OWNERSHIP_METADATA_TIMEOUT", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCURLs()[domain.NetworkEthereumMainnet] != "https://eth.example" {
		t.Errorf("rpc url not applied: %v", cfg.RPCURLs())
	}
	if cfg.MaxInFlight != 8 || cfg.MetadataTimeout != 250*time.Millisecond {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	level, _ := cfg.Level()
	if level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", level)
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]string{
		"OWNERSHIP_SNAPSHOT_DRIVER": "postgres",
		"OWNERSHIP_WORKER_COUNT":    "0",
		"OWNERSHIP_LOG_LEVEL":       "loud",
		"OWNERSHIP_QUEUE_SIZE":      "-1",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Errorf("expected %s=%s to be rejected", key, value)
			}
		})
	}
}
