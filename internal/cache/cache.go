package cache

import (
	"context"
	"sync"
	"time"
)

// Store is a byte cache with per-entry TTL. Misses are (nil, false, nil).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Memory is a process-local Store. Expired entries are dropped on read and
// swept every sweepEvery writes so dead sessions do not pile up.
type Memory struct {
	mu     sync.RWMutex
	ttl    time.Duration
	m      map[string]entry
	now    func() time.Time
	writes int
}

const sweepEvery = 256

type entry struct {
	val []byte
	exp time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Memory{
		ttl: ttl,
		m:   make(map[string]entry),
		now: time.Now,
	}
}

func (c *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	now := c.now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !now.Before(e.exp) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false, nil
	}

	return e.val, true, nil
}

// Set stores val for ttl; a non-positive ttl uses the cache default.
func (c *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.m[key] = entry{val: val, exp: now.Add(ttl)}

	c.writes++
	if c.writes >= sweepEvery {
		c.writes = 0
		for k, e := range c.m {
			if !now.Before(e.exp) {
				delete(c.m, k)
			}
		}
	}

	return nil
}

func (c *Memory) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
	return nil
}
