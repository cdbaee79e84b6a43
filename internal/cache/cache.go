package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type item struct {
	expiration int64
}

// Cache потокобезопасный in-memory кэш с TTL
type Cache struct {
	mu    sync.Mutex
	items map[string]item
	ttl   time.Duration
	now   func() time.Time
}

// New создаёт кэш со временем жизни по умолчанию
func New(defaultTTL time.Duration) *Cache {
	return &Cache{
		items: make(map[string]item),
		ttl:   defaultTTL,
		now:   time.Now,
	}
}

// Run периодически удаляет просроченные записи, пока жив контекст
func (c *Cache) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.cleanupExpired()
		}
	}
}

// Add ставит отметку, только если ключа нет или он просрочен.
// Возвращает true, если отметка поставлена.
func (c *Cache) Add(key string, ttl ...time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if it, ok := c.items[key]; ok && !c.expired(it) {
		return false
	}
	c.items[key] = item{expiration: c.expiry(ttl)}
	return true
}

// DeleteByPrefix удаляет все ключи с префиксом
func (c *Cache) DeleteByPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}

func (c *Cache) cleanupExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, it := range c.items {
		if c.expired(it) {
			delete(c.items, key)
		}
	}
}

func (c *Cache) expiry(ttl []time.Duration) int64 {
	d := c.ttl
	if len(ttl) > 0 {
		d = ttl[0]
	}
	return c.now().Add(d).UnixNano()
}

func (c *Cache) expired(it item) bool {
	return c.now().UnixNano() > it.expiration
}
