package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisConfig overrides connection settings from the URL when non-zero.
type RedisConfig struct {
	PoolSize    int
	DialTimeout time.Duration
}

func newRedisOptions(redisURL string, redisCfg RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis URL: %w", err)
	}
	if redisCfg.PoolSize > 0 {
		opts.PoolSize = redisCfg.PoolSize
	}
	if redisCfg.DialTimeout > 0 {
		opts.DialTimeout = redisCfg.DialTimeout
	}
	return opts, nil
}

func NewRedisClient(ctx context.Context, redisURL string, redisCfg RedisConfig, logger *logrus.Logger) (*redis.Client, error) {
	opts, err := newRedisOptions(redisURL, redisCfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("error pinging redis: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"addr":      opts.Addr,
		"db":        opts.DB,
		"pool_size": opts.PoolSize,
	}).Info("Redis client created successfully")

	return client, nil
}
