package service

import (
	"context"
	"errors"
	"fmt"

	"dashboard/internal/domain"
	"dashboard/internal/lock"
	"dashboard/internal/logger"
	"dashboard/internal/repository"
)

// CategoryService категории с ключом по имени
type CategoryService struct {
	store    repository.DocumentStore
	entities *repository.Entities[domain.Category]
	rename   *RenameCoordinator
	locks    lock.Locker
	policies Policies
}

func NewCategoryService(store repository.DocumentStore, locks lock.Locker, p Policies) *CategoryService {
	if locks == nil {
		locks = lock.NewMemory(0)
	}
	return &CategoryService{
		store:    store,
		entities: repository.NewEntities[domain.Category](store, repository.Categories),
		rename:   NewRenameCoordinator(store, locks, p),
		locks:    locks,
		policies: p,
	}
}

// Add создаёт категорию под ключом = обрезанное имя. Повторное имя отклоняется
// с repository.ErrAlreadyExists; проверка и запись атомарны в хранилище.
func (s *CategoryService) Add(ctx context.Context, name, imageURL string) (*domain.Category, error) {
	key, err := NaturalKey(name)
	if err != nil {
		return nil, err
	}
	unlock, err := s.locks.Lock(ctx, lockKey(repository.Categories, key))
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = s.store.Insert(ctx, repository.Categories, key, repository.Document{"name": key, "imageUrl": imageURL})
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, fmt.Errorf("category %q: %w", key, repository.ErrAlreadyExists)
	}
	if err != nil {
		return nil, err
	}
	return &domain.Category{ID: key, Name: key, ImageURL: imageURL}, nil
}

func (s *CategoryService) Get(ctx context.Context, key string) (*domain.Category, error) {
	c, err := s.entities.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if c.Name == "" {
		c.Name = key
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	list, err := s.entities.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Name == "" {
			list[i].Name = list[i].ID
		}
	}
	return list, nil
}

// Update меняет имя и изображение; смена имени идёт через RenameCoordinator
func (s *CategoryService) Update(ctx context.Context, key string, in RenameInput) (*RenameOutcome, error) {
	return s.rename.Rename(ctx, key, in)
}

// Delete удаляет категорию, применяя политику к товарам, брендам и цветам,
// которые на неё ссылаются. Возвращает число затронутых зависимых документов.
func (s *CategoryService) Delete(ctx context.Context, key string) (int, error) {
	unlock, err := s.locks.Lock(ctx, lockKey(repository.Categories, key))
	if err != nil {
		return 0, err
	}
	defer unlock()

	if _, err := s.store.Get(ctx, repository.Categories, key); err != nil {
		return 0, err
	}
	var ops []repository.Op
	if s.policies.References != ReferenceOrphan {
		for _, ref := range categoryReferences {
			keys, err := findReferencing(ctx, s.store, ref.Collection, ref.Field, key)
			if err != nil {
				return 0, err
			}
			ops = append(ops, referenceOps(ref.Collection, ref.Field, "", keys)...)
		}
		if s.policies.References == ReferenceBlock && len(ops) > 0 {
			return 0, fmt.Errorf("%w: category %q has %d dependents", ErrHasDependents, key, len(ops))
		}
	}
	cascaded := len(ops)
	ops = append(ops, repository.Op{Kind: repository.OpDelete, Collection: repository.Categories, Key: key})
	if _, err := applyOps(ctx, s.store, s.policies.WriteMode, ops); err != nil {
		logger.WithContext(ctx).WithError(err).WithField("category", key).Error("category delete failed")
		return 0, err
	}
	return cascaded, nil
}
