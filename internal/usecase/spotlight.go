package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/yuitake/tana/internal/domain"
)

var tracer = otel.Tracer("spotlight")

const (
	// historyExclusionWindow is how many of the latest picks are excluded
	// from automatic selection. When the corpus is smaller than the
	// window, selection falls back to allowing repeats.
	historyExclusionWindow = 10

	// minCacheTTL keeps records on the edge of expiry from being cached
	// with a zero or negative lifetime and thrashing the store.
	minCacheTTL = 30 * time.Second
)

var rotationPeriods = map[string]time.Duration{
	domain.CategoryBook:  30 * 24 * time.Hour,
	domain.CategoryMovie: 7 * 24 * time.Hour,
	domain.CategoryShow:  7 * 24 * time.Hour,
	domain.CategoryAnime: 7 * 24 * time.Hour,
	domain.CategoryMusic: 24 * time.Hour,
}

const defaultRotationPeriod = 7 * 24 * time.Hour

// RotationPeriod returns how long a category keeps one featured item.
func RotationPeriod(category string) time.Duration {
	if d, ok := rotationPeriods[category]; ok {
		return d
	}
	return defaultRotationPeriod
}

// SpotlightUsecase keeps exactly one featured item per category, rotating
// it on the category's schedule. Reads go cache, then store, then a
// locked rollover that selects a fresh item.
type SpotlightUsecase struct {
	store     SpotlightRepository
	providers ProviderDirectory
	cache     SpotlightCache
	events    EventPublisher
	locker    RolloverLocker
	now       func() time.Time
}

func NewSpotlightUsecase(
	store SpotlightRepository,
	providers ProviderDirectory,
	cache SpotlightCache,
	events EventPublisher,
	locker RolloverLocker,
) *SpotlightUsecase {
	if locker == nil {
		locker = NewGlobalLocker()
	}
	return &SpotlightUsecase{
		store:     store,
		providers: providers,
		cache:     cache,
		events:    events,
		locker:    locker,
		now:       time.Now,
	}
}

// GetCurrent returns the enriched item currently featured for category.
func (uc *SpotlightUsecase) GetCurrent(ctx context.Context, category string) (domain.Spotlight, error) {
	if sp, ok := uc.cache.Get(ctx, category); ok {
		return sp, nil
	}

	sp, err := uc.resolveActive(ctx, category)
	if err == nil {
		return sp, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Spotlight{}, err
	}

	// Cold path: no active record. Several callers can land here at the
	// same time, so rollover runs under the locker, and the store is
	// checked again after acquisition in case another caller already
	// rotated while this one waited.
	ctx, span := tracer.Start(ctx, "Spotlight.Usecase.Rollover")
	defer span.End()

	uc.locker.Lock(category)
	defer uc.locker.Unlock(category)

	sp, err = uc.resolveActive(ctx, category)
	if err == nil {
		return sp, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Spotlight{}, err
	}

	return uc.rollover(ctx, category)
}

// resolveActive reads the newest active record from the store, enriches
// it and refreshes the cache. Returns domain.ErrNotFound when the
// category has no record whose window covers now.
func (uc *SpotlightUsecase) resolveActive(ctx context.Context, category string) (domain.Spotlight, error) {
	record, err := uc.store.FindActive(ctx, category, uc.now())
	if err != nil {
		return domain.Spotlight{}, err
	}
	return uc.enrichAndCache(ctx, record)
}

func (uc *SpotlightUsecase) enrichAndCache(ctx context.Context, record domain.SpotlightRecord) (domain.Spotlight, error) {
	provider, err := uc.providers.Resolve(record.Category)
	if err != nil {
		return domain.Spotlight{}, err
	}

	detail, err := provider.Detail(ctx, record.ItemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The underlying item was deleted after being featured. The
			// record stays in history untouched; this read just fails.
			return domain.Spotlight{}, domain.ItemDetailsMissingError{
				Category: record.Category,
				ItemID:   record.ItemID,
			}
		}
		return domain.Spotlight{}, pkgerrors.Wrap(err, "spotlight: fetching item detail")
	}

	sp := domain.Spotlight{
		RecordID:          record.ID,
		Category:          record.Category,
		ItemID:            record.ItemID,
		Detail:            detail,
		StartDate:         record.StartDate,
		EndDate:           record.EndDate,
		IsManualSelection: record.IsManualSelection,
	}

	ttl := record.EndDate.Sub(uc.now())
	if ttl < minCacheTTL {
		ttl = minCacheTTL
	}
	uc.cache.Set(ctx, record.Category, sp, ttl)

	return sp, nil
}

// rollover selects a fresh item, persists the new record and returns the
// enriched result. Caller must hold the rollover lock for category.
func (uc *SpotlightUsecase) rollover(ctx context.Context, category string) (domain.Spotlight, error) {
	provider, err := uc.providers.Resolve(category)
	if err != nil {
		return domain.Spotlight{}, err
	}

	recent, err := uc.store.RecentItemIDs(ctx, category, historyExclusionWindow)
	if err != nil {
		return domain.Spotlight{}, pkgerrors.Wrap(err, "spotlight: loading recent picks")
	}

	itemID, err := provider.RandomUnseenID(ctx, recent)
	if errors.Is(err, domain.ErrNotFound) {
		// The exclusion window covers the whole corpus. Featuring a
		// repeat beats featuring nothing, so retry without exclusions.
		itemID, err = provider.RandomUnseenID(ctx, nil)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Spotlight{}, domain.NoContentAvailableError{Category: category}
		}
		return domain.Spotlight{}, pkgerrors.Wrap(err, "spotlight: selecting item")
	}

	now := uc.now()
	record := domain.SpotlightRecord{
		ID:                uuid.New().String(),
		Category:          category,
		ItemID:            itemID,
		StartDate:         now,
		EndDate:           now.Add(RotationPeriod(category)),
		IsManualSelection: false,
		CreatedDate:       now,
	}

	if err := uc.store.Create(ctx, record); err != nil {
		return domain.Spotlight{}, pkgerrors.Wrap(err, "spotlight: storing rotation record")
	}

	slog.InfoContext(ctx, "spotlight rotated",
		slog.String("category", category),
		slog.String("itemId", itemID),
		slog.Time("endDate", record.EndDate),
		slog.String("module", "spotlight"),
	)
	uc.publish(ctx, record)

	return uc.enrichAndCache(ctx, record)
}

// History returns every rotation for the category, newest first, with
// display metadata resolved through a single batch provider call. History
// is read-only and never triggers a rollover.
func (uc *SpotlightUsecase) History(ctx context.Context, category string) ([]domain.HistoryEntry, error) {
	provider, err := uc.providers.Resolve(category)
	if err != nil {
		return nil, err
	}

	records, err := uc.store.History(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "spotlight: loading history")
	}
	if len(records) == 0 {
		return []domain.HistoryEntry{}, nil
	}

	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ItemID]; ok {
			continue
		}
		seen[r.ItemID] = struct{}{}
		ids = append(ids, r.ItemID)
	}

	summaries, err := provider.TitlesAndImages(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "spotlight: resolving history metadata")
	}

	now := uc.now()
	entries := make([]domain.HistoryEntry, 0, len(records))
	for _, r := range records {
		summary, ok := summaries[r.ItemID]
		if !ok {
			// Item deleted since it was featured.
			summary = domain.MediaSummary{Title: "(removed)"}
		}
		entries = append(entries, domain.HistoryEntry{
			RecordID:          r.ID,
			ItemID:            r.ItemID,
			Title:             summary.Title,
			ImageURL:          summary.ImageURL,
			StartDate:         r.StartDate,
			EndDate:           r.EndDate,
			CreatedDate:       r.CreatedDate,
			IsManualSelection: r.IsManualSelection,
			IsActive:          r.Active(now),
		})
	}

	return entries, nil
}

// SetManual force-features itemID for category until endDate, bypassing
// selection entirely. No lock is taken: an in-flight rollover can race
// this benignly because reads order by creation time descending, so the
// newest record wins.
func (uc *SpotlightUsecase) SetManual(ctx context.Context, category string, itemID string, endDate time.Time) (string, error) {
	now := uc.now()
	record := domain.SpotlightRecord{
		ID:                uuid.New().String(),
		Category:          category,
		ItemID:            itemID,
		StartDate:         now,
		EndDate:           endDate,
		IsManualSelection: true,
		CreatedDate:       now,
	}

	if err := uc.store.Create(ctx, record); err != nil {
		return "", pkgerrors.Wrap(err, "spotlight: storing manual selection")
	}

	// Drop the cached projection so the next read re-resolves from the
	// store instead of serving the superseded item.
	uc.cache.Remove(ctx, category)

	slog.InfoContext(ctx, "spotlight set manually",
		slog.String("category", category),
		slog.String("itemId", itemID),
		slog.Time("endDate", endDate),
		slog.String("module", "spotlight"),
	)
	uc.publish(ctx, record)

	return record.ID, nil
}

func (uc *SpotlightUsecase) publish(ctx context.Context, record domain.SpotlightRecord) {
	if uc.events == nil {
		return
	}
	err := uc.events.PublishRotation(ctx, domain.RotationEvent{
		Category: record.Category,
		RecordID: record.ID,
		ItemID:   record.ItemID,
		Manual:   record.IsManualSelection,
		EndDate:  record.EndDate,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to publish rotation event",
			slog.String("category", record.Category),
			slog.String("error", err.Error()),
			slog.String("module", "spotlight"),
		)
	}
}
