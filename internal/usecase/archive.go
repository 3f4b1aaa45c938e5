package usecase

import (
	"context"

	pkgerrors "github.com/pkg/errors"

	"github.com/yuitake/tana/internal/domain"
)

// ArchiveRepository is the generic CRUD contract for one archive table.
type ArchiveRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, item *T) (string, error)
	Update(ctx context.Context, id string, item *T) error
	Delete(ctx context.Context, id string) error
}

// ArchiveStore is the type-erased surface the REST layer works with, so
// one set of handlers serves every category. NewItem hands out a *T for
// request binding.
type ArchiveStore interface {
	NewItem() any
	List(ctx context.Context) (any, error)
	Get(ctx context.Context, id string) (any, error)
	Create(ctx context.Context, item any) (string, error)
	Update(ctx context.Context, id string, item any) error
	Delete(ctx context.Context, id string) error
}

// TypedStore adapts a typed repository to the ArchiveStore surface.
type TypedStore[T any] struct {
	repo ArchiveRepository[T]
}

func NewTypedStore[T any](repo ArchiveRepository[T]) *TypedStore[T] {
	return &TypedStore[T]{repo: repo}
}

func (s *TypedStore[T]) NewItem() any {
	return new(T)
}

func (s *TypedStore[T]) List(ctx context.Context) (any, error) {
	return s.repo.List(ctx)
}

func (s *TypedStore[T]) Get(ctx context.Context, id string) (any, error) {
	return s.repo.Get(ctx, id)
}

func (s *TypedStore[T]) Create(ctx context.Context, item any) (string, error) {
	typed, ok := item.(*T)
	if !ok {
		return "", pkgerrors.Errorf("archive: unexpected item type %T", item)
	}
	return s.repo.Create(ctx, typed)
}

func (s *TypedStore[T]) Update(ctx context.Context, id string, item any) error {
	typed, ok := item.(*T)
	if !ok {
		return pkgerrors.Errorf("archive: unexpected item type %T", item)
	}
	return s.repo.Update(ctx, id, typed)
}

func (s *TypedStore[T]) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ArchiveUsecase dispatches CRUD calls to the store registered for a
// category. There is deliberately no per-category logic here.
type ArchiveUsecase struct {
	stores map[string]ArchiveStore
}

func NewArchiveUsecase(stores map[string]ArchiveStore) *ArchiveUsecase {
	return &ArchiveUsecase{stores: stores}
}

func (uc *ArchiveUsecase) Store(category string) (ArchiveStore, error) {
	store, ok := uc.stores[category]
	if !ok {
		return nil, domain.NotFoundError{Resource: "category"}
	}
	return store, nil
}
