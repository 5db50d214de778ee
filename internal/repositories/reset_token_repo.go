package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huyhoangtran00/portfolio/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrTokenConsumed is returned when a reset token id has already been recorded.
var ErrTokenConsumed = errors.New("token already consumed")

const consumedResetTokenPrefix = "reset-token:consumed:"

type RedisConsumedTokenRepository struct {
	client *redis.Client
}

func NewRedisConsumedTokenRepository(client *redis.Client) *RedisConsumedTokenRepository {
	return &RedisConsumedTokenRepository{client: client}
}

// Consume marks the token as used. The marker expires together with the token,
// after which the signature check alone rejects it.
func (r *RedisConsumedTokenRepository) Consume(ctx context.Context, token *models.ConsumedResetToken) error {
	if token.ConsumedAt.IsZero() {
		token.ConsumedAt = time.Now()
	}

	jsonData, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal consumed token: %w", err)
	}

	ttl := remainingTTL(token.ExpiresAt, token.ConsumedAt)

	ok, err := r.client.SetNX(ctx, consumedTokenKey(token.ID), jsonData, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to record consumed token: %w", err)
	}
	if !ok {
		return ErrTokenConsumed
	}
	return nil
}

func (r *RedisConsumedTokenRepository) IsConsumed(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, consumedTokenKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check consumed token: %w", err)
	}
	return n > 0, nil
}

func (r *RedisConsumedTokenRepository) Release(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, consumedTokenKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to release consumed token: %w", err)
	}
	return nil
}

func consumedTokenKey(id string) string {
	return consumedResetTokenPrefix + id
}
