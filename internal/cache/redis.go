package cache

import (
	"log"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates the client used by the rate limiter. Returns nil when no
// address is configured; callers treat a nil client as "limiter disabled".
func NewRedis(addr, password string) *redis.Client {
	if addr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	log.Printf("Redis client created (addr: %s)\n", addr)
	return rdb
}
