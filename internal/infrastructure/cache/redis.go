package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vape-shop-api/internal/domain"
)

const blocksKey = "homepage:blocks"

// Redis shares the cached block list between API replicas.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Connect opens a client and checks it with PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (r *Redis) key() string { return r.prefix + blocksKey }

func (r *Redis) GetBlocks(ctx context.Context) ([]domain.HomeBlock, bool, error) {
	b, err := r.client.Get(ctx, r.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var blocks []domain.HomeBlock
	if err := json.Unmarshal(b, &blocks); err != nil {
		return nil, false, fmt.Errorf("decode cached blocks: %w", err)
	}
	return blocks, true, nil
}

func (r *Redis) SetBlocks(ctx context.Context, blocks []domain.HomeBlock, ttl time.Duration) error {
	b, err := json.Marshal(blocks)
	if err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}
	return r.client.Set(ctx, r.key(), b, ttl).Err()
}

func (r *Redis) InvalidateBlocks(ctx context.Context) error {
	return r.client.Del(ctx, r.key()).Err()
}
