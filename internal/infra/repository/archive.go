package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yuitake/tana/internal/domain"
)

// Identifiable is implemented by archive models through their embedded
// base so the generic repository can read and assign primary keys.
type Identifiable interface {
	PrimaryID() string
	AssignID(id string)
}

// ArchiveRepository is the shared CRUD base for archive tables. One
// instance per category model; rows are soft-deleted through gorm's
// DeletedAt and silently excluded from every read.
type ArchiveRepository[T any, PT interface {
	*T
	Identifiable
}] struct {
	db *gorm.DB
}

func NewArchiveRepository[T any, PT interface {
	*T
	Identifiable
}](db *gorm.DB) *ArchiveRepository[T, PT] {
	return &ArchiveRepository[T, PT]{db: db}
}

func (r *ArchiveRepository[T, PT]) List(ctx context.Context) ([]T, error) {
	var items []T
	err := r.db.WithContext(ctx).Order("c_date DESC").Find(&items).Error
	return items, err
}

func (r *ArchiveRepository[T, PT]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return item, domain.NotFoundError{Resource: "item"}
	}
	return item, err
}

func (r *ArchiveRepository[T, PT]) Create(ctx context.Context, item PT) (string, error) {
	if item.PrimaryID() == "" {
		item.AssignID(uuid.New().String())
	}

	err := r.db.WithContext(ctx).Create(item).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", domain.DuplicateError{Resource: "item"}
	}
	if err != nil {
		return "", err
	}
	return item.PrimaryID(), nil
}

func (r *ArchiveRepository[T, PT]) Update(ctx context.Context, id string, item PT) error {
	item.AssignID(id)

	// Struct updates skip zero-valued fields, so this behaves as a
	// partial update.
	res := r.db.WithContext(ctx).Model(item).Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "item"}
	}
	return nil
}

func (r *ArchiveRepository[T, PT]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "item"}
	}
	return nil
}
