package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

const listingGenKey = "movies:list:gen"

// ListingCache keeps serialized GET /movies responses in Redis. Entries are
// keyed by a generation counter; Invalidate bumps the counter so a listing
// read before a mutation can never be stored under a live key.
type ListingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewListingCache(rdb *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{rdb: rdb, ttl: ttl}
}

// ListingKey is the cache key for one variant of the movie listing.
func ListingKey(gen int64, withReviews bool) string {
	return "movies:list:" + strconv.FormatInt(gen, 10) + ":reviews=" + strconv.FormatBool(withReviews)
}

func (c *ListingCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, listingGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get listing generation: %w", err)
	}
	return gen, nil
}

// Get returns the cached listing and the generation it was looked up under.
// body is nil on a miss; pass gen back to Set.
func (c *ListingCache) Get(ctx context.Context, withReviews bool) ([]byte, int64, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, err
	}
	val, err := c.rdb.Get(ctx, ListingKey(gen, withReviews)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("redis get listing: %w", err)
	}
	return val, gen, nil
}

func (c *ListingCache) Set(ctx context.Context, withReviews bool, gen int64, body []byte) error {
	return c.rdb.Set(ctx, ListingKey(gen, withReviews), body, c.ttl).Err()
}

// Invalidate retires every cached listing. Old entries expire with their TTL.
func (c *ListingCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, listingGenKey).Err()
}
