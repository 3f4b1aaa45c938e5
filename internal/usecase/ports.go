package usecase

import (
	"context"
	"time"

	"github.com/yuitake/tana/internal/domain"
)

// SpotlightRepository persists rotation records. Records are append-only:
// Create is the only write, and both read paths order by creation time
// descending so the newest record for a category always wins.
type SpotlightRepository interface {
	Create(ctx context.Context, record domain.SpotlightRecord) error
	// FindActive returns the most recently created record whose window
	// still covers now, or domain.ErrNotFound.
	FindActive(ctx context.Context, category string, now time.Time) (domain.SpotlightRecord, error)
	// History returns every record for the category, newest first.
	History(ctx context.Context, category string) ([]domain.SpotlightRecord, error)
	// RecentItemIDs returns the item ids of the latest records, newest
	// first, capped at limit.
	RecentItemIDs(ctx context.Context, category string, limit int) ([]string, error)
}

// ContentProvider exposes one category's item storage to the rotation
// engine. The engine never sees category-specific types; Detail payloads
// pass through opaquely.
type ContentProvider interface {
	// RandomUnseenID picks a random item id outside the exclusion set and
	// returns domain.ErrNotFound when nothing qualifies.
	RandomUnseenID(ctx context.Context, exclude []string) (string, error)
	// Detail returns the full item payload, or domain.ErrNotFound when the
	// underlying item no longer exists.
	Detail(ctx context.Context, itemID string) (any, error)
	// TitlesAndImages resolves display metadata for a set of ids in one
	// query. Unknown ids are omitted from the result, never an error.
	TitlesAndImages(ctx context.Context, itemIDs []string) (map[string]domain.MediaSummary, error)
}

// ProviderDirectory resolves a category name to its content provider.
type ProviderDirectory interface {
	Resolve(category string) (ContentProvider, error)
}

// SpotlightCache is the transient projection of the spotlight store.
// It is derived state only: every store write is followed by a cache
// write or a cache invalidation.
type SpotlightCache interface {
	Get(ctx context.Context, category string) (domain.Spotlight, bool)
	Set(ctx context.Context, category string, value domain.Spotlight, ttl time.Duration)
	Remove(ctx context.Context, category string)
}

// EventPublisher broadcasts rotation events to interested listeners.
type EventPublisher interface {
	PublishRotation(ctx context.Context, event domain.RotationEvent) error
}
