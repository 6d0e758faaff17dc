package service

import (
	"context"
	"fmt"
	"strings"

	"dashboard/internal/domain"
	"dashboard/internal/lock"
	"dashboard/internal/logger"
	"dashboard/internal/repository"
)

// ColorInput поля цвета и выбранные товары выбранной категории
type ColorInput struct {
	Name       string
	ColorCode  string
	CategoryID string
	ProductIDs []string
}

// ColorSaved сохранённый цвет и итог синхронизации товаров
type ColorSaved struct {
	Color domain.Color `json:"color"`
	Sync  SyncResult   `json:"sync"`
}

// ColorService цвета и их обратные ссылки product.color
type ColorService struct {
	store    repository.DocumentStore
	colors   *repository.Entities[domain.Color]
	products *repository.Entities[domain.Product]
	sync     *Synchronizer
	locks    lock.Locker
	policies Policies
}

func NewColorService(store repository.DocumentStore, locks lock.Locker, p Policies) *ColorService {
	if locks == nil {
		locks = lock.NewMemory(0)
	}
	return &ColorService{
		store:    store,
		colors:   repository.NewEntities[domain.Color](store, repository.Colors),
		products: repository.NewEntities[domain.Product](store, repository.Products),
		sync:     NewSynchronizer(store, p.WriteMode, p.SyncRetries),
		locks:    locks,
		policies: p,
	}
}

func (s *ColorService) List(ctx context.Context) ([]domain.Color, error) {
	return s.colors.List(ctx)
}

func (s *ColorService) Get(ctx context.Context, id string) (*domain.Color, error) {
	return s.colors.Get(ctx, id)
}

// Create создаёт цвет и назначает его выбранным товарам категории
func (s *ColorService) Create(ctx context.Context, in ColorInput) (*ColorSaved, error) {
	c := domain.Color{
		Name:       strings.TrimSpace(in.Name),
		ColorCode:  strings.TrimSpace(in.ColorCode),
		CategoryID: strings.TrimSpace(in.CategoryID),
	}
	if c.Name == "" {
		return nil, fmt.Errorf("%w: color name is required", ErrInvalidInput)
	}
	id, err := s.colors.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	res, err := s.syncCategory(ctx, id, c.CategoryID, in.ProductIDs)
	if err != nil {
		return nil, err
	}
	return &ColorSaved{Color: c, Sync: res}, nil
}

// Update меняет поля цвета и сверяет ссылки товаров выбранной категории.
// Товары других категорий с этим цветом не пересматриваются.
func (s *ColorService) Update(ctx context.Context, id string, in ColorInput) (*ColorSaved, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: color name is required", ErrInvalidInput)
	}
	unlock, err := s.locks.Lock(ctx, lockKey(repository.Colors, id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	c := domain.Color{
		ID:         id,
		Name:       name,
		ColorCode:  strings.TrimSpace(in.ColorCode),
		CategoryID: strings.TrimSpace(in.CategoryID),
	}
	if err := s.colors.Update(ctx, id, repository.Document{
		"name":       c.Name,
		"colorCode":  c.ColorCode,
		"categoryId": c.CategoryID,
	}); err != nil {
		return nil, err
	}
	res, err := s.syncCategory(ctx, id, c.CategoryID, in.ProductIDs)
	if err != nil {
		return nil, err
	}
	return &ColorSaved{Color: c, Sync: res}, nil
}

// SyncProducts только сверка ссылок, без изменения самого цвета
func (s *ColorService) SyncProducts(ctx context.Context, id, categoryID string, productIDs []string) (SyncResult, error) {
	if _, err := s.colors.Get(ctx, id); err != nil {
		return SyncResult{}, err
	}
	unlock, err := s.locks.Lock(ctx, lockKey(repository.Colors, id))
	if err != nil {
		return SyncResult{}, err
	}
	defer unlock()
	return s.syncCategory(ctx, id, strings.TrimSpace(categoryID), productIDs)
}

func (s *ColorService) syncCategory(ctx context.Context, colorID, categoryID string, selected []string) (SyncResult, error) {
	if categoryID == "" {
		return SyncResult{}, nil
	}
	candidates, err := s.products.List(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	deps := make([]Dependent, 0, len(candidates))
	for _, p := range candidates {
		if p.CategoryID == categoryID {
			deps = append(deps, Dependent{ID: p.ID, Ref: p.Color})
		}
	}
	return s.sync.Sync(ctx, ProductColor, colorID, deps, selected)
}

// Members товары, чей color указывает на этот цвет (обратный поиск по всем товарам)
func (s *ColorService) Members(ctx context.Context, id string) ([]domain.Product, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	for _, p := range all {
		if p.Color == id {
			out = append(out, p)
		}
	}
	return out, nil
}

// Delete удаляет цвет с учётом политики ссылок product.color
func (s *ColorService) Delete(ctx context.Context, id string) (int, error) {
	unlock, err := s.locks.Lock(ctx, lockKey(repository.Colors, id))
	if err != nil {
		return 0, err
	}
	defer unlock()

	if _, err := s.store.Get(ctx, repository.Colors, id); err != nil {
		return 0, err
	}
	var ops []repository.Op
	if s.policies.References != ReferenceOrphan {
		keys, err := findReferencing(ctx, s.store, ProductColor.Collection, ProductColor.Field, id)
		if err != nil {
			return 0, err
		}
		if s.policies.References == ReferenceBlock && len(keys) > 0 {
			return 0, fmt.Errorf("%w: color %q is used by %d products", ErrHasDependents, id, len(keys))
		}
		ops = referenceOps(ProductColor.Collection, ProductColor.Field, "", keys)
	}
	cleared := len(ops)
	ops = append(ops, repository.Op{Kind: repository.OpDelete, Collection: repository.Colors, Key: id})
	if _, err := applyOps(ctx, s.store, s.policies.WriteMode, ops); err != nil {
		logger.WithContext(ctx).WithError(err).WithField("color", id).Error("color delete failed")
		return 0, err
	}
	return cleared, nil
}
