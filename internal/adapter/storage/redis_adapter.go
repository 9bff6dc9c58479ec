package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

const metadataKeyPrefix = "metadata:"

// RedisAdapter is the metadata tier shared by every resolver process.
// Entries never expire and the first writer wins.
type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func metadataKey(contract domain.ContractRef, id domain.CatalogID) string {
	return metadataKeyPrefix + string(contract.Network) + ":" + contract.Address + ":" + id.String()
}

func (r *RedisAdapter) GetMetadata(ctx context.Context, contract domain.ContractRef, id domain.CatalogID) (domain.NFTMetadata, bool, error) {
	raw, err := r.client.Get(ctx, metadataKey(contract, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NFTMetadata{}, false, nil
	}
	if err != nil {
		return domain.NFTMetadata{}, false, fmt.Errorf("get metadata: %w", err)
	}

	var metadata domain.NFTMetadata
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return domain.NFTMetadata{}, false, fmt.Errorf("decode metadata: %w", err)
	}
	return metadata, true, nil
}

func (r *RedisAdapter) SetMetadata(ctx context.Context, contract domain.ContractRef, id domain.CatalogID, metadata domain.NFTMetadata) error {
	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := r.client.SetNX(ctx, metadataKey(contract, id), raw, 0).Err(); err != nil {
		return fmt.Errorf("set metadata: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (r *RedisAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
