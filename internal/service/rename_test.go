package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/repository"
)

func seedCategory(store repository.DocumentStore, key string) {
	seed(store, repository.Categories, key, repository.Document{
		"name":     key,
		"imageUrl": "https://cdn/" + key + ".png",
		"featured": true,
	})
}

func TestNaturalKey(t *testing.T) {
	key, err := NaturalKey("  Men Shoes ")
	require.NoError(t, err)
	assert.Equal(t, "Men Shoes", key)

	for _, bad := range []string{"", "   ", ".", "..", "a/b"} {
		_, err := NaturalKey(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, "name %q", bad)
	}
}

func TestRename_SameKeyUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	seedCategory(store, "Men")
	rc := NewRenameCoordinator(store, nil, DefaultPolicies())
	store.reset()

	out, err := rc.Rename(ctx, "Men", RenameInput{NewName: " Men ", ImageURL: "https://cdn/new.png"})
	require.NoError(t, err)
	assert.False(t, out.Renamed)
	assert.Equal(t, "Men", out.Category.ID)
	assert.Equal(t, []string{"update categories/Men"}, store.writes())

	d, err := store.Get(ctx, repository.Categories, "Men")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/new.png", d["imageUrl"])
	assert.Equal(t, true, d["featured"])
}

func TestRename_MovesDocument(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	seedCategory(store, "Men")
	rc := NewRenameCoordinator(store, nil, DefaultPolicies())

	out, err := rc.Rename(ctx, "Men", RenameInput{NewName: "Gentlemen"})
	require.NoError(t, err)
	assert.True(t, out.Renamed)
	assert.Equal(t, "Gentlemen", out.Category.ID)

	_, err = store.Get(ctx, repository.Categories, "Men")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	d, err := store.Get(ctx, repository.Categories, "Gentlemen")
	require.NoError(t, err)
	assert.Equal(t, "Gentlemen", d["name"])
	// image kept when none uploaded, other fields copied
	assert.Equal(t, "https://cdn/Men.png", d["imageUrl"])
	assert.Equal(t, true, d["featured"])
	assert.Equal(t, 1, store.Len(repository.Categories))
}

func TestRename_MissingSource(t *testing.T) {
	store := newRecordingStore()
	rc := NewRenameCoordinator(store, nil, DefaultPolicies())
	_, err := rc.Rename(context.Background(), "Ghost", RenameInput{NewName: "Other"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, store.writes())
}

func TestRename_CollisionRejected(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	seedCategory(store, "Men")
	seedCategory(store, "Women")
	rc := NewRenameCoordinator(store, nil, DefaultPolicies())

	_, err := rc.Rename(ctx, "Men", RenameInput{NewName: "Women"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)

	// nothing moved
	men, err := store.Get(ctx, repository.Categories, "Men")
	require.NoError(t, err)
	assert.Equal(t, "Men", men["name"])
	women, err := store.Get(ctx, repository.Categories, "Women")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/Women.png", women["imageUrl"])
}

func TestRename_CollisionOverwrite(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	seedCategory(store, "Men")
	seedCategory(store, "Women")
	p := DefaultPolicies()
	p.Collision = CollisionOverwrite
	rc := NewRenameCoordinator(store, nil, p)

	_, err := rc.Rename(ctx, "Men", RenameInput{NewName: "Women"})
	require.NoError(t, err)

	women, err := store.Get(ctx, repository.Categories, "Women")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/Men.png", women["imageUrl"])
	assert.Equal(t, 1, store.Len(repository.Categories))
}

func TestRename_OrphanLeavesReferences(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	seedCategory(store, "Men")
	seed(store, repository.Products, "p1", repository.Document{"name": "Shirt", "categoryId": "Men"})
	rc := NewRenameCoordinator(store, nil, DefaultPolicies())

	out, err := rc.Rename(ctx, "Men", RenameInput{NewName: "Gentlemen"})
	require.NoError(t, err)
	assert.Zero(t, out.Cascaded)

	p, err := store.Get(ctx, repository.Products, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Men", p["categoryId"])
}

func TestRename_CascadeRewritesReferences(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	seedCategory(store, "Men")
	seed(store, repository.Products, "p1", repository.Document{"name": "Shirt", "categoryId": "Men"})
	seed(store, repository.Products, "p2", repository.Document{"name": "Dress", "categoryId": "Women"})
	seed(store, repository.Brands, "b1", repository.Document{"name": "Acme", "categoryId": "Men"})
	seed(store, repository.Colors, "c1", repository.Document{"name": "Red", "categoryId": "Men"})
	p := DefaultPolicies()
	p.References = ReferenceCascade
	rc := NewRenameCoordinator(store, nil, p)

	out, err := rc.Rename(ctx, "Men", RenameInput{NewName: "Gentlemen"})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Cascaded)

	for _, ref := range []struct{ coll, key, want string }{
		{repository.Products, "p1", "Gentlemen"},
		{repository.Products, "p2", "Women"},
		{repository.Brands, "b1", "Gentlemen"},
		{repository.Colors, "c1", "Gentlemen"},
	} {
		d, err := store.Get(ctx, ref.coll, ref.key)
		require.NoError(t, err)
		assert.Equal(t, ref.want, d["categoryId"], "%s/%s", ref.coll, ref.key)
	}
}

func TestRename_BlockWithDependents(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	seedCategory(store, "Men")
	seed(store, repository.Brands, "b1", repository.Document{"name": "Acme", "categoryId": "Men"})
	p := DefaultPolicies()
	p.References = ReferenceBlock
	rc := NewRenameCoordinator(store, nil, p)
	store.reset()

	_, err := rc.Rename(ctx, "Men", RenameInput{NewName: "Gentlemen"})
	assert.ErrorIs(t, err, ErrHasDependents)
	assert.Empty(t, store.writes())
}

func TestRename_SequentialPartialFailure(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	seedCategory(store, "Men")
	rc := NewRenameCoordinator(store, nil, DefaultPolicies())
	store.fail = failOn("delete categories/Men")

	_, err := rc.Rename(ctx, "Men", RenameInput{NewName: "Gentlemen"})
	require.ErrorIs(t, err, ErrPartialWrite)
	assert.ErrorIs(t, err, errInjected)

	// both documents exist
	store.fail = nil
	_, err = store.Get(ctx, repository.Categories, "Men")
	assert.NoError(t, err)
	_, err = store.Get(ctx, repository.Categories, "Gentlemen")
	assert.NoError(t, err)
}

func TestRename_FirstWriteFailureIsNotPartial(t *testing.T) {
	store := newRecordingStore()
	seedCategory(store, "Men")
	rc := NewRenameCoordinator(store, nil, DefaultPolicies())
	store.fail = failOn("insert categories/Gentlemen")

	_, err := rc.Rename(context.Background(), "Men", RenameInput{NewName: "Gentlemen"})
	require.ErrorIs(t, err, errInjected)
	assert.NotErrorIs(t, err, ErrPartialWrite)
}

func TestRename_BatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	seedCategory(store, "Men")
	seed(store, repository.Products, "p1", repository.Document{"categoryId": "Men"})
	p := DefaultPolicies()
	p.WriteMode = WriteBatch
	p.References = ReferenceCascade
	rc := NewRenameCoordinator(store, nil, p)
	store.fail = failOn("batch:delete categories/Men")

	_, err := rc.Rename(ctx, "Men", RenameInput{NewName: "Gentlemen"})
	require.ErrorIs(t, err, errInjected)

	store.fail = nil
	_, err = store.Get(ctx, repository.Categories, "Gentlemen")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	prod, err := store.Get(ctx, repository.Products, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Men", prod["categoryId"])
}

func TestRename_BatchCollisionRollsBack(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	seedCategory(store, "Men")
	seedCategory(store, "Women")
	p := DefaultPolicies()
	p.WriteMode = WriteBatch
	rc := NewRenameCoordinator(store, nil, p)

	_, err := rc.Rename(ctx, "Men", RenameInput{NewName: "Women"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.Equal(t, 2, store.Len(repository.Categories))
}

func TestCategory_AddDuplicateRejected(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	cs := NewCategoryService(store, nil, DefaultPolicies())

	c, err := cs.Add(ctx, " Kids ", "https://cdn/kids.png")
	require.NoError(t, err)
	assert.Equal(t, "Kids", c.ID)

	_, err = cs.Add(ctx, "Kids", "https://cdn/other.png")
	require.ErrorIs(t, err, repository.ErrAlreadyExists)

	got, err := cs.Get(ctx, "Kids")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/kids.png", got.ImageURL)
}

func TestCategory_ListDefaultsNameToKey(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	seed(store, repository.Categories, "Legacy", repository.Document{"imageUrl": "x"})
	cs := NewCategoryService(store, nil, DefaultPolicies())

	list, err := cs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Legacy", list[0].Name)
}

func TestCategory_DeletePolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("orphan", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedCategory(store, "Men")
		seed(store, repository.Products, "p1", repository.Document{"categoryId": "Men"})
		cs := NewCategoryService(store, nil, DefaultPolicies())

		n, err := cs.Delete(ctx, "Men")
		require.NoError(t, err)
		assert.Zero(t, n)
		p, _ := store.Get(ctx, repository.Products, "p1")
		assert.Equal(t, "Men", p["categoryId"])
	})

	t.Run("cascade", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedCategory(store, "Men")
		seed(store, repository.Products, "p1", repository.Document{"categoryId": "Men"})
		p := DefaultPolicies()
		p.References = ReferenceCascade
		cs := NewCategoryService(store, nil, p)

		n, err := cs.Delete(ctx, "Men")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		prod, _ := store.Get(ctx, repository.Products, "p1")
		assert.Equal(t, "", prod["categoryId"])
	})

	t.Run("block", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedCategory(store, "Men")
		seed(store, repository.Products, "p1", repository.Document{"categoryId": "Men"})
		p := DefaultPolicies()
		p.References = ReferenceBlock
		cs := NewCategoryService(store, nil, p)

		_, err := cs.Delete(ctx, "Men")
		require.ErrorIs(t, err, ErrHasDependents)
		_, err = store.Get(ctx, repository.Categories, "Men")
		assert.NoError(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		cs := NewCategoryService(repository.NewMemoryStore(), nil, DefaultPolicies())
		_, err := cs.Delete(ctx, "Ghost")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}
