package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minhle/folioforge/internal/domain/portfolio"
)

const portfolioCacheTTL = 10 * time.Minute

// redisPortfolioCache is the cache-aside store for the public read path;
// a miss returns (nil, nil) so callers fall through to Postgres.
type redisPortfolioCache struct {
	client *redis.Client
}

func NewRedisPortfolioCache(client *redis.Client) portfolio.Cache {
	return &redisPortfolioCache{client: client}
}

func portfolioCacheKey(slug string) string {
	return fmt.Sprintf("portfolio:slug:%s", slug)
}

func (c *redisPortfolioCache) GetBySlug(ctx context.Context, slug string) (*portfolio.PublicView, error) {
	raw, err := c.client.Get(ctx, portfolioCacheKey(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get failed: %w", err)
	}

	view := &portfolio.PublicView{}
	if err := json.Unmarshal(raw, view); err != nil {
		return nil, fmt.Errorf("cache entry corrupt: %w", err)
	}
	return view, nil
}

func (c *redisPortfolioCache) SetBySlug(ctx context.Context, slug string, view *portfolio.PublicView) error {
	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}
	if err := c.client.Set(ctx, portfolioCacheKey(slug), raw, portfolioCacheTTL).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

func (c *redisPortfolioCache) DeleteBySlug(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, portfolioCacheKey(slug)).Err(); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}
