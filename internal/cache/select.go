package cache

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backends accepted by Select.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

const sessionKeyPrefix = "salon:session:"

// Select builds the session lookup cache for backend. BackendNone yields a nil
// Store, meaning every lookup goes to postgres. BackendMemory is per process:
// a logout on one API instance is not seen by the others until entries expire,
// so it is only for single instance deployments.
func Select(backend string, rdb *redis.Client, ttl time.Duration) (Store, error) {
	switch backend {
	case BackendNone:
		return nil, nil
	case BackendMemory:
		return NewMemory(ttl), nil
	case BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis session cache needs a redis client")
		}
		return NewRedis(rdb, sessionKeyPrefix, ttl), nil
	}

	return nil, fmt.Errorf("unknown session cache backend %q", backend)
}
