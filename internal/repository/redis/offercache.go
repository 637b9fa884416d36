package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pratham101201/supermall/internal/domain"
	apperrors "github.com/pratham101201/supermall/pkg/errors"
)

const keyPrefix = "offers:shop:"

// OfferCache caches a shop's active offer list in Redis. The cache is
// read-through with a TTL; mutations to a shop's offers invalidate the key.
type OfferCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOfferCache creates a new Redis-backed offer cache.
func NewOfferCache(client *redis.Client, ttl time.Duration) *OfferCache {
	return &OfferCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the cached active offer list for a shop.
func (c *OfferCache) Get(ctx context.Context, shopID string) ([]domain.Offer, error) {
	key := keyPrefix + shopID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("offer cache", shopID)
		}
		return nil, fmt.Errorf("redis get offers: %w", err)
	}

	var offers []domain.Offer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, fmt.Errorf("unmarshal cached offers: %w", err)
	}

	return offers, nil
}

// Set stores a shop's active offer list with the configured TTL.
func (c *OfferCache) Set(ctx context.Context, shopID string, offers []domain.Offer) error {
	key := keyPrefix + shopID

	data, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("marshal offers: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set offers: %w", err)
	}

	return nil
}

// Invalidate removes the cached offer list for a shop.
func (c *OfferCache) Invalidate(ctx context.Context, shopID string) error {
	key := keyPrefix + shopID

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del offers: %w", err)
	}

	return nil
}
