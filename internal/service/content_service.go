package service

import (
	"context"
	"strings"

	"dashboard/internal/domain"
	"dashboard/internal/repository"
)

// PromoImageService рекламные изображения витрины
type PromoImageService struct {
	repo *repository.Entities[domain.PromoImage]
}

func NewPromoImageService(store repository.DocumentStore) *PromoImageService {
	return &PromoImageService{repo: repository.NewEntities[domain.PromoImage](store, repository.PromoImages)}
}

// PromoImagePatch изменяемые поля рекламного изображения
type PromoImagePatch struct {
	Title    *string
	ImageURL *string
}

func (s *PromoImageService) Create(ctx context.Context, p domain.PromoImage) (*domain.PromoImage, error) {
	p.Title = strings.TrimSpace(p.Title)
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

func (s *PromoImageService) Get(ctx context.Context, id string) (*domain.PromoImage, error) {
	return s.repo.Get(ctx, id)
}

func (s *PromoImageService) List(ctx context.Context) ([]domain.PromoImage, error) {
	return s.repo.List(ctx)
}

func (s *PromoImageService) Update(ctx context.Context, id string, patch PromoImagePatch) (*domain.PromoImage, error) {
	f := repository.Document{}
	putString(f, "title", patch.Title)
	putImage(f, "imageUrl", patch.ImageURL)
	return patchEntity(ctx, s.repo, id, f)
}

func (s *PromoImageService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SocialLinkService ссылки на соцсети магазина
type SocialLinkService struct {
	repo *repository.Entities[domain.SocialLink]
}

func NewSocialLinkService(store repository.DocumentStore) *SocialLinkService {
	return &SocialLinkService{repo: repository.NewEntities[domain.SocialLink](store, repository.SocialLinks)}
}

// SocialLinkPatch изменяемые поля ссылки
type SocialLinkPatch struct {
	Type *string
	URL  *string
}

func (s *SocialLinkService) Create(ctx context.Context, l domain.SocialLink) (*domain.SocialLink, error) {
	l.Type = strings.TrimSpace(l.Type)
	l.URL = strings.TrimSpace(l.URL)
	id, err := s.repo.Create(ctx, l)
	if err != nil {
		return nil, err
	}
	l.ID = id
	return &l, nil
}

func (s *SocialLinkService) Get(ctx context.Context, id string) (*domain.SocialLink, error) {
	return s.repo.Get(ctx, id)
}

func (s *SocialLinkService) List(ctx context.Context) ([]domain.SocialLink, error) {
	return s.repo.List(ctx)
}

func (s *SocialLinkService) Update(ctx context.Context, id string, patch SocialLinkPatch) (*domain.SocialLink, error) {
	f := repository.Document{}
	putString(f, "type", patch.Type)
	putString(f, "url", patch.URL)
	return patchEntity(ctx, s.repo, id, f)
}

func (s *SocialLinkService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
