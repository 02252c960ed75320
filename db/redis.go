package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"musehub/config"
	"musehub/logger"
)

var rdb *redis.Client

// ConnectRedis establishes the Redis connection and verifies it with a ping.
func ConnectRedis(cfg *config.Config) error {
	rdb = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	logger.Info("connected to redis",
		logger.String("host", cfg.RedisHost),
		logger.String("port", cfg.RedisPort),
		logger.Int("db", cfg.RedisDB))
	return nil
}

// GetRedisClient returns the shared Redis client, nil before ConnectRedis.
func GetRedisClient() *redis.Client {
	return rdb
}

// CloseRedis closes the Redis connection.
func CloseRedis() error {
	if rdb == nil {
		return nil
	}
	return rdb.Close()
}

const snapshotKey = "musehub:store:snapshot"

// RedisPersister stores the aggregate snapshot as a single Redis value.
type RedisPersister struct {
	client *redis.Client
}

// NewRedisPersister wraps an existing Redis client.
func NewRedisPersister(client *redis.Client) *RedisPersister {
	return &RedisPersister{client: client}
}

// SaveSnapshot writes the snapshot blob. Snapshots do not expire; the
// newest one simply overwrites the previous.
func (p *RedisPersister) SaveSnapshot(ctx context.Context, data []byte) error {
	return p.client.Set(ctx, snapshotKey, data, 0).Err()
}

// LoadSnapshot reads the snapshot blob, (nil, nil) when none exists.
func (p *RedisPersister) LoadSnapshot(ctx context.Context) ([]byte, error) {
	data, err := p.client.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}
