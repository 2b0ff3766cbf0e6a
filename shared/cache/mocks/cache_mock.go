package mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"scheduleright/shared/cache"
)

// memoryCache is an in-memory, thread-safe stand-in for the Redis cache used in tests.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewRedisCache() cache.RedisCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Save(_ context.Context, key string, value any, _ int) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = payload

	return nil
}

func (c *memoryCache) Get(_ context.Context, key string, value any) error {
	c.mu.Lock()
	payload, ok := c.entries[key]
	c.mu.Unlock()

	if !ok {
		return fmt.Errorf("failed to get cache value: %w", cache.Nil)
	}

	if err := json.Unmarshal(payload, value); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

func (c *memoryCache) Clear(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	trimmed := strings.TrimSuffix(prefix, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, trimmed) {
			delete(c.entries, key)
		}
	}

	return nil
}
