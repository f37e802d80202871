package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flightledger/config"
	"github.com/redis/go-redis/v9"
)

// RedisCache provides the distributed per-booking mutual-exclusion lock used
// by checkIn/refund while their transfers are in flight.
type RedisCache struct {
	client  *redis.Client
	lockTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, lockTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:  redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		lockTTL: lockTTL,
	}
}

func (c *RedisCache) AcquireBookingLock(ctx context.Context, flightID, bookingID int64) (bool, error) {
	return c.client.SetNX(ctx, bookingLockKey(flightID, bookingID), "locked", c.lockTTL).Result()
}

func (c *RedisCache) ReleaseBookingLock(ctx context.Context, flightID, bookingID int64) error {
	return c.client.Del(ctx, bookingLockKey(flightID, bookingID)).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func bookingLockKey(flightID, bookingID int64) string {
	return fmt.Sprintf("lock:flight:%d:booking:%d", flightID, bookingID)
}
