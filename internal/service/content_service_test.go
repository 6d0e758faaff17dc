package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/domain"
	"dashboard/internal/repository"
)

func strp(s string) *string { return &s }

func TestBrandService(t *testing.T) {
	ctx := context.Background()
	bs := NewBrandService(repository.NewMemoryStore())

	b, err := bs.Create(ctx, domain.Brand{Name: " Acme ", CategoryID: " Men ", ImageURL: "https://cdn/acme.png"})
	require.NoError(t, err)
	assert.Equal(t, "Acme", b.Name)
	assert.Equal(t, "Men", b.CategoryID)

	up, err := bs.Update(ctx, b.ID, BrandPatch{Name: strp("Acme Co"), ImageURL: strp("")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Co", up.Name)
	assert.Equal(t, "https://cdn/acme.png", up.ImageURL)
	assert.Equal(t, "Men", up.CategoryID)

	list, err := bs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme Co", list[0].Name)

	_, err = bs.Update(ctx, "ghost", BrandPatch{Name: strp("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, bs.Delete(ctx, b.ID))
	_, err = bs.Get(ctx, b.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBrandService_UpdateKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	seed(store, repository.Brands, "b1", repository.Document{
		"name": "Acme", "categoryId": "Men", "imageUrl": "https://cdn/acme.png", "featured": true,
	})
	bs := NewBrandService(store)

	_, err := bs.Update(ctx, "b1", BrandPatch{CategoryID: strp("Women")})
	require.NoError(t, err)

	raw, err := store.Get(ctx, repository.Brands, "b1")
	require.NoError(t, err)
	assert.Equal(t, "Women", raw["categoryId"])
	assert.Equal(t, "Acme", raw["name"])
	assert.Equal(t, "https://cdn/acme.png", raw["imageUrl"])
	assert.Equal(t, true, raw["featured"])
}

func TestPromoImageService(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	ps := NewPromoImageService(store)

	p, err := ps.Create(ctx, domain.PromoImage{Title: " Sale ", ImageURL: "https://cdn/x.png"})
	require.NoError(t, err)
	assert.Equal(t, "Sale", p.Title)
	require.NoError(t, store.Update(ctx, repository.PromoImages, p.ID, repository.Document{"order": 2}))

	up, err := ps.Update(ctx, p.ID, PromoImagePatch{Title: strp("Big sale")})
	require.NoError(t, err)
	assert.Equal(t, "Big sale", up.Title)
	assert.Equal(t, "https://cdn/x.png", up.ImageURL)

	raw, err := store.Get(ctx, repository.PromoImages, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, raw["order"])

	// пустое изменение ничего не пишет
	same, err := ps.Update(ctx, p.ID, PromoImagePatch{})
	require.NoError(t, err)
	assert.Equal(t, "Big sale", same.Title)

	_, err = ps.Update(ctx, "ghost", PromoImagePatch{Title: strp("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = ps.Update(ctx, "", PromoImagePatch{Title: strp("x")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSocialLinkService(t *testing.T) {
	ctx := context.Background()
	ss := NewSocialLinkService(repository.NewMemoryStore())

	l, err := ss.Create(ctx, domain.SocialLink{Type: " instagram ", URL: " https://instagram.com/shop "})
	require.NoError(t, err)
	assert.Equal(t, "https://instagram.com/shop", l.URL)
	assert.Equal(t, "instagram", l.Type)

	up, err := ss.Update(ctx, l.ID, SocialLinkPatch{URL: strp("https://instagram.com/shop2")})
	require.NoError(t, err)
	assert.Equal(t, "instagram", up.Type)
	assert.Equal(t, "https://instagram.com/shop2", up.URL)

	_, err = ss.Update(ctx, "ghost", SocialLinkPatch{Type: strp("x")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
