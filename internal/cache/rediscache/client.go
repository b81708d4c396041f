// Package rediscache is the Redis-backed response cache. Each cached body
// is a plain key, and every tag is a Redis set holding the keys it covers so
// a purge can delete them in one pass.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/skysurvey-io/sia-obscore/internal/observability"
)

type Option func(*redis.Options)

func WithPoolSize(n int) Option {
	return func(o *redis.Options) { o.PoolSize = n }
}

func WithMinIdleConns(n int) Option {
	return func(o *redis.Options) { o.MinIdleConns = n }
}

func WithDialTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.DialTimeout = d }
}

func WithReadTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.ReadTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *redis.Options) { o.WriteTimeout = d }
}

type Client struct {
	rdb *redis.Client
}

func New(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	if addr == "" {
		return nil, errors.New("redis address is required")
	}

	ro := &redis.Options{
		Addr:         addr,
		PoolSize:     32,
		MinIdleConns: 2,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	}
	for _, f := range opts {
		f(ro)
	}

	rdb := redis.NewClient(ro)

	start := time.Now()
	err := rdb.Ping(ctx).Err()
	observability.ObserveCacheOp("ping", err, time.Since(start).Seconds())
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCacheOp("get", nil, time.Since(start).Seconds())
		observability.IncCacheMiss()
		return nil, false, nil
	}
	observability.ObserveCacheOp("get", err, time.Since(start).Seconds())
	if err != nil {
		return nil, false, fmt.Errorf("redis GET %q: %w", key, err)
	}
	observability.IncCacheHit()
	return val, true, nil
}

// Set stores the body and adds the key to each tag set. Tag sets get a
// longer expiry than the entries so a purge still finds keys whose bodies
// already lapsed.
func (c *Client) Set(ctx context.Context, key string, val []byte, ttl time.Duration, tags ...string) error {
	start := time.Now()
	_, err := c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key, val, ttl)
		for _, tag := range tags {
			p.SAdd(ctx, tag, key)
			if ttl > 0 {
				p.Expire(ctx, tag, 2*ttl)
			}
		}
		return nil
	})
	observability.ObserveCacheOp("set", err, time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("redis SET %q (pipeline): %w", key, err)
	}
	return nil
}

// PurgeTag deletes every key registered under tag plus the tag set itself,
// returning the number of entries dropped.
func (c *Client) PurgeTag(ctx context.Context, tag string) (int, error) {
	start := time.Now()
	keys, err := c.rdb.SMembers(ctx, tag).Result()
	if err != nil {
		observability.ObserveCacheOp("purge", err, time.Since(start).Seconds())
		return 0, fmt.Errorf("redis SMEMBERS %q: %w", tag, err)
	}

	err = c.rdb.Del(ctx, append(keys, tag)...).Err()
	observability.ObserveCacheOp("purge", err, time.Since(start).Seconds())
	if err != nil {
		return 0, fmt.Errorf("redis DEL %d keys for tag %q: %w", len(keys), tag, err)
	}
	return len(keys), nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if err := c.rdb.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}
