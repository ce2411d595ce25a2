package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fitstore/fitstore-backend/config"
	"github.com/fitstore/fitstore-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// redisKV stores each entry as a hash with "value" and "version" fields so a
// WATCH-guarded transaction can check the version before writing.
type redisKV struct {
	client *redis.Client
}

// NewRedisKV connects to Redis and verifies the connection.
func NewRedisKV(cfg *config.RedisConfig) (KV, error) {
	logger.Info("Initializing Redis storage", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis storage ready", nil)
	return &redisKV{client: client}, nil
}

func (r *redisKV) Get(ctx context.Context, key string) (string, int64, error) {
	fields, err := r.client.HMGet(ctx, key, "value", "version").Result()
	if err != nil {
		return "", 0, err
	}
	if fields[0] == nil {
		return "", 0, ErrKeyNotFound
	}

	value, _ := fields[0].(string)
	version := int64(0)
	if raw, ok := fields[1].(string); ok {
		if _, err := fmt.Sscanf(raw, "%d", &version); err != nil {
			return "", 0, fmt.Errorf("corrupt version for key %s: %w", key, err)
		}
	}
	return value, version, nil
}

func (r *redisKV) Put(ctx context.Context, key, value string, expectedVersion int64) (int64, error) {
	newVersion := expectedVersion + 1

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, key, "version").Int64()
		if errors.Is(err, redis.Nil) {
			current = 0
		} else if err != nil {
			return err
		}

		if current != expectedVersion {
			return ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "value", value, "version", newVersion)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		// Key changed between WATCH and EXEC
		return 0, ErrVersionConflict
	}
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

func (r *redisKV) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisKV) Close() error {
	logger.Info("Closing Redis storage", nil)
	return r.client.Close()
}
