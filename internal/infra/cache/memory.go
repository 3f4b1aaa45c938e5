package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yuitake/tana/internal/domain"
)

func cacheKey(category string) string {
	return "spotlight:" + category
}

// Memory is the in-process spotlight cache backed by go-cache. This is the
// default backend; entries expire on their own so eviction never races the
// rotation engine.
type Memory struct {
	c *gocache.Cache
}

func NewMemory() *Memory {
	return &Memory{
		c: gocache.New(gocache.NoExpiration, 5*time.Minute),
	}
}

func (m *Memory) Get(ctx context.Context, category string) (domain.Spotlight, bool) {
	v, found := m.c.Get(cacheKey(category))
	if !found {
		return domain.Spotlight{}, false
	}
	sp, ok := v.(domain.Spotlight)
	if !ok || sp.ItemID == "" {
		return domain.Spotlight{}, false
	}
	return sp, true
}

func (m *Memory) Set(ctx context.Context, category string, value domain.Spotlight, ttl time.Duration) {
	m.c.Set(cacheKey(category), value, ttl)
}

func (m *Memory) Remove(ctx context.Context, category string) {
	m.c.Delete(cacheKey(category))
}
