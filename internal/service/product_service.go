package service

import (
	"context"
	"strings"

	"dashboard/internal/domain"
	"dashboard/internal/repository"
)

// ProductService инкапсулирует бизнес-логику вокруг товаров
type ProductService struct {
	repo *repository.Entities[domain.Product]
}

func NewProductService(store repository.DocumentStore) *ProductService {
	return &ProductService{repo: repository.NewEntities[domain.Product](store, repository.Products)}
}

func validProduct(p domain.Product) bool {
	return strings.TrimSpace(p.Name) != "" &&
		p.Price >= 0 &&
		p.Discount >= 0 && p.Discount <= 100 &&
		p.Quantity >= 0
}

func normalizeProduct(p domain.Product) domain.Product {
	p.Name = strings.TrimSpace(p.Name)
	sizes := make([]domain.Size, 0, len(p.Sizes))
	for _, s := range p.Sizes {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			continue
		}
		sizes = append(sizes, s)
	}
	p.Sizes = sizes
	return p
}

func (s *ProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if !validProduct(p) {
		return nil, ErrInvalidInput
	}
	cp := normalizeProduct(p)
	id, err := s.repo.Create(ctx, cp)
	if err != nil {
		return nil, err
	}
	cp.ID = id
	return &cp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

// ProductPatch изменяемые поля товара. Ссылку на цвет хранит ColorService,
// поэтому цвета здесь нет.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Discount    *float64
	Sizes       []domain.Size
	CategoryID  *string
	BrandID     *string
	Quantity    *int64
	IsAvailable *bool
	ImageURL    *string
}

func (p ProductPatch) apply(cur domain.Product) domain.Product {
	if p.Name != nil {
		cur.Name = *p.Name
	}
	if p.Price != nil {
		cur.Price = *p.Price
	}
	if p.Discount != nil {
		cur.Discount = *p.Discount
	}
	if p.Sizes != nil {
		cur.Sizes = p.Sizes
	}
	if p.CategoryID != nil {
		cur.CategoryID = strings.TrimSpace(*p.CategoryID)
	}
	if p.BrandID != nil {
		cur.BrandID = strings.TrimSpace(*p.BrandID)
	}
	if p.Quantity != nil {
		cur.Quantity = *p.Quantity
	}
	if p.IsAvailable != nil {
		cur.IsAvailable = *p.IsAvailable
	}
	if p.ImageURL != nil && strings.TrimSpace(*p.ImageURL) != "" {
		cur.ImageURL = strings.TrimSpace(*p.ImageURL)
	}
	return cur
}

// fields только переданные поля, значения берутся из нормализованного товара
func (p ProductPatch) fields(next domain.Product) repository.Document {
	f := repository.Document{}
	if p.Name != nil {
		f["name"] = next.Name
	}
	if p.Price != nil {
		f["price"] = next.Price
	}
	if p.Discount != nil {
		f["discount"] = next.Discount
	}
	if p.Sizes != nil {
		f["sizes"] = sizeValues(next.Sizes)
	}
	putString(f, "categoryId", p.CategoryID)
	putString(f, "brandId", p.BrandID)
	if p.Quantity != nil {
		f["quantity"] = next.Quantity
	}
	if p.IsAvailable != nil {
		f["isAvailable"] = next.IsAvailable
	}
	putImage(f, "imageURL", p.ImageURL)
	return f
}

// Update меняет только переданные поля товара
func (s *ProductService) Update(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := normalizeProduct(patch.apply(*cur))
	if !validProduct(next) {
		return nil, ErrInvalidInput
	}
	if fields := patch.fields(next); len(fields) > 0 {
		if err := s.repo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	next.ID = id
	return &next, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
