// Package cache es una caché en memoria con expiración por entrada.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type item[V any] struct {
	value      V
	expiration int64
}

type Cache[V any] struct {
	items map[string]item[V]
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

// New crea una caché cuyo TTL por defecto es ttl.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		items: make(map[string]item[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Run elimina las entradas expiradas cada interval hasta que ctx termine.
func (c *Cache[V]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.purge()
		}
	}
}

func (c *Cache[V]) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixNano()
	for key, it := range c.items {
		if now > it.expiration {
			delete(c.items, key)
		}
	}
}

// Set guarda un valor; ttl opcional sustituye al de la caché.
func (c *Cache[V]) Set(key string, value V, ttl ...time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	duration := c.ttl
	if len(ttl) > 0 {
		duration = ttl[0]
	}
	c.items[key] = item[V]{value: value, expiration: c.now().Add(duration).UnixNano()}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found || c.now().UnixNano() > it.expiration {
		var zero V
		return zero, false
	}
	return it.value, true
}

// DeleteByPrefix elimina todas las claves que empiecen con prefix y devuelve
// cuántas había, expiradas incluidas.
func (c *Cache[V]) DeleteByPrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleted := 0
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
			deleted++
		}
	}
	return deleted
}
