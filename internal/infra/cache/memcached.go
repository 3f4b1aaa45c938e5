package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/yuitake/tana/internal/domain"
)

// Memcached stores spotlight entries as JSON in an external memcached.
// Useful when several instances should share one resolved spotlight;
// note the Detail payload comes back as decoded JSON, not the original
// provider struct.
type Memcached struct {
	client *memcache.Client
}

// memcached reads expirations above 30 days as absolute Unix timestamps,
// so relative TTLs must stay below that threshold.
const maxRelativeExpiry = 30 * 24 * time.Hour

func memcacheExpiration(ttl time.Duration) int32 {
	if ttl > maxRelativeExpiry {
		ttl = maxRelativeExpiry
	}
	return int32(ttl / time.Second)
}

func NewMemcached(client *memcache.Client) *Memcached {
	return &Memcached{client: client}
}

func (m *Memcached) Get(ctx context.Context, category string) (domain.Spotlight, bool) {
	item, err := m.client.Get(cacheKey(category))
	if err != nil {
		return domain.Spotlight{}, false
	}

	var sp domain.Spotlight
	if err := json.Unmarshal(item.Value, &sp); err != nil {
		return domain.Spotlight{}, false
	}
	if sp.ItemID == "" {
		return domain.Spotlight{}, false
	}
	return sp, true
}

func (m *Memcached) Set(ctx context.Context, category string, value domain.Spotlight, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode spotlight for cache",
			slog.String("category", category),
			slog.String("error", err.Error()),
			slog.String("module", "cache"),
		)
		return
	}

	err = m.client.Set(&memcache.Item{
		Key:        cacheKey(category),
		Value:      data,
		Expiration: memcacheExpiration(ttl),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to cache spotlight",
			slog.String("category", category),
			slog.String("error", err.Error()),
			slog.String("module", "cache"),
		)
	}
}

func (m *Memcached) Remove(ctx context.Context, category string) {
	err := m.client.Delete(cacheKey(category))
	if err != nil && err != memcache.ErrCacheMiss {
		slog.ErrorContext(ctx, "failed to invalidate spotlight cache",
			slog.String("category", category),
			slog.String("error", err.Error()),
			slog.String("module", "cache"),
		)
	}
}
