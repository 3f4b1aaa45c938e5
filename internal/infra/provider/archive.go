package provider

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yuitake/tana/internal/domain"
	"github.com/yuitake/tana/internal/usecase"
)

// Archive is a gorm-backed content provider over one category table.
// It relies on the id, title and cover_url columns shared by every
// archive model; everything else about T passes through opaquely as the
// detail payload.
type Archive[T any] struct {
	db *gorm.DB
}

func NewArchive[T any](db *gorm.DB) *Archive[T] {
	return &Archive[T]{db: db}
}

// RandomUnseenID picks one random item id outside the exclusion set.
// Soft-deleted rows never qualify.
func (p *Archive[T]) RandomUnseenID(ctx context.Context, exclude []string) (string, error) {
	q := p.db.WithContext(ctx).
		Model(new(T)).
		Order("RANDOM()").
		Limit(1)
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}

	var ids []string
	if err := q.Pluck("id", &ids).Error; err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", domain.NotFoundError{Resource: "candidate"}
	}
	return ids[0], nil
}

func (p *Archive[T]) Detail(ctx context.Context, itemID string) (any, error) {
	var item T
	err := p.db.WithContext(ctx).Where("id = ?", itemID).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundError{Resource: "item"}
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// TitlesAndImages resolves display metadata for a set of ids in a single
// query. Ids that no longer exist are simply absent from the result.
func (p *Archive[T]) TitlesAndImages(ctx context.Context, itemIDs []string) (map[string]domain.MediaSummary, error) {
	result := make(map[string]domain.MediaSummary, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ID       string
		Title    string
		CoverURL string
	}
	err := p.db.WithContext(ctx).
		Model(new(T)).
		Select("id", "title", "cover_url").
		Where("id IN ?", itemIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ID] = domain.MediaSummary{Title: row.Title, ImageURL: row.CoverURL}
	}
	return result, nil
}

var _ usecase.ContentProvider = (*Archive[struct{}])(nil)
