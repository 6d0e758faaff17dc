package service

import (
	"context"
	"strings"

	"dashboard/internal/domain"
	"dashboard/internal/repository"
)

// BrandService торговые марки. Каждая привязана к категории.
type BrandService struct {
	repo *repository.Entities[domain.Brand]
}

func NewBrandService(store repository.DocumentStore) *BrandService {
	return &BrandService{repo: repository.NewEntities[domain.Brand](store, repository.Brands)}
}

// BrandPatch изменяемые поля марки
type BrandPatch struct {
	Name       *string
	ImageURL   *string
	CategoryID *string
}

func (p BrandPatch) fields() repository.Document {
	f := repository.Document{}
	putString(f, "name", p.Name)
	putString(f, "categoryId", p.CategoryID)
	putImage(f, "imageUrl", p.ImageURL)
	return f
}

func (s *BrandService) Create(ctx context.Context, b domain.Brand) (*domain.Brand, error) {
	b.Name = strings.TrimSpace(b.Name)
	b.CategoryID = strings.TrimSpace(b.CategoryID)
	id, err := s.repo.Create(ctx, b)
	if err != nil {
		return nil, err
	}
	b.ID = id
	return &b, nil
}

func (s *BrandService) Get(ctx context.Context, id string) (*domain.Brand, error) {
	return s.repo.Get(ctx, id)
}

func (s *BrandService) List(ctx context.Context) ([]domain.Brand, error) {
	return s.repo.List(ctx)
}

// Update пишет только переданные поля; пустой ImageURL оставляет прежнее изображение
func (s *BrandService) Update(ctx context.Context, id string, patch BrandPatch) (*domain.Brand, error) {
	return patchEntity(ctx, s.repo, id, patch.fields())
}

func (s *BrandService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
