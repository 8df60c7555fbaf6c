package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrNotFound is returned when a key is absent or has expired.
var ErrNotFound = errors.New("key not found")

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Confirmation codes. One code per phone; setting a new code overwrites the
// previous one, expiry is enforced by the TTL.
func (c *Client) SetCode(phone, code string, ttl time.Duration) error {
	ctx := context.Background()
	return c.rdb.Set(ctx, "confirm:"+phone, code, ttl).Err()
}

func (c *Client) GetCode(phone string) (string, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "confirm:"+phone).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get confirmation code: %w", err)
	}
	return val, nil
}

func (c *Client) DeleteCode(phone string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "confirm:"+phone).Err()
}

// Exchange-rate cache. Written by the currency refresh job; readers fall
// back to the settings row when the cache is cold.
func (c *Client) SetUSDRate(rate string) error {
	ctx := context.Background()
	return c.rdb.Set(ctx, "rate:usd_uzs", rate, 0).Err()
}

func (c *Client) GetUSDRate() (string, error) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "rate:usd_uzs").Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get usd rate: %w", err)
	}
	return val, nil
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
