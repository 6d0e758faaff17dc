package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/repository"
)

// p1 и p2 уже ссылаются на colorX, p3 без цвета; выбраны p2 и p3
func seedColorCase(store repository.DocumentStore) []Dependent {
	seed(store, repository.Products, "p1", repository.Document{"name": "A", "categoryId": "Men", "color": "colorX"})
	seed(store, repository.Products, "p2", repository.Document{"name": "B", "categoryId": "Men", "color": "colorX"})
	seed(store, repository.Products, "p3", repository.Document{"name": "C", "categoryId": "Men"})
	return []Dependent{{ID: "p1", Ref: "colorX"}, {ID: "p2", Ref: "colorX"}, {ID: "p3"}}
}

func colorOf(t *testing.T, store repository.DocumentStore, id string) string {
	t.Helper()
	d, err := store.Get(context.Background(), repository.Products, id)
	require.NoError(t, err)
	return refValue(d, "color")
}

func failTimes(call string, times int32) func(string) error {
	var n atomic.Int32
	return func(c string) error {
		if c == call && n.Add(1) <= times {
			return errInjected
		}
		return nil
	}
}

func TestPlanSync(t *testing.T) {
	res, ops := PlanSync(ProductColor, "colorX",
		[]Dependent{{ID: "p1", Ref: "colorX"}, {ID: "p2", Ref: "colorX"}, {ID: "p3"}, {ID: "p4", Ref: "colorY"}},
		[]string{"p2", "p3", "p4"})

	assert.Equal(t, []string{"p3", "p4"}, res.Added)
	assert.Equal(t, []string{"p1"}, res.Removed)
	assert.Equal(t, []string{"p2"}, res.Unchanged)
	require.Len(t, ops, 3)
	assert.Equal(t, repository.Document{"color": ""}, ops[0].Fields)
	assert.Equal(t, "p1", ops[0].Key)
	assert.Equal(t, repository.OpUpdate, ops[1].Kind)
}

func TestSync_Correctness(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	cands := seedColorCase(store)
	store.reset()
	s := NewSynchronizer(store, WriteSequential, 0)

	res, err := s.Sync(ctx, ProductColor, "colorX", cands, []string{"p2", "p3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p3"}, res.Added)
	assert.Equal(t, []string{"p1"}, res.Removed)
	assert.Equal(t, []string{"p2"}, res.Unchanged)
	assert.Equal(t, []string{"update products/p1", "update products/p3"}, store.writes())

	assert.Equal(t, "", colorOf(t, store, "p1"))
	assert.Equal(t, "colorX", colorOf(t, store, "p2"))
	assert.Equal(t, "colorX", colorOf(t, store, "p3"))
}

func TestSync_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	seedColorCase(store)
	s := NewSynchronizer(store, WriteSequential, 0)
	selected := []string{"p2", "p3"}

	_, err := s.Sync(ctx, ProductColor, "colorX", []Dependent{{ID: "p1", Ref: "colorX"}, {ID: "p2", Ref: "colorX"}, {ID: "p3"}}, selected)
	require.NoError(t, err)

	store.reset()
	after := []Dependent{{ID: "p1"}, {ID: "p2", Ref: "colorX"}, {ID: "p3", Ref: "colorX"}}
	res, err := s.Sync(ctx, ProductColor, "colorX", after, selected)
	require.NoError(t, err)
	assert.Zero(t, res.Writes())
	assert.Empty(t, store.writes())
}

func TestSync_NotSelectedOtherParentUntouched(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	seed(store, repository.Products, "p1", repository.Document{"color": "colorY"})
	store.reset()
	s := NewSynchronizer(store, WriteSequential, 0)

	res, err := s.Sync(ctx, ProductColor, "colorX", []Dependent{{ID: "p1", Ref: "colorY"}}, nil)
	require.NoError(t, err)
	assert.Zero(t, res.Writes())
	assert.Equal(t, "colorY", colorOf(t, store, "p1"))
}

func TestSync_SequentialPartialFailure(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	cands := seedColorCase(store)
	store.fail = failOn("update products/p3")
	s := NewSynchronizer(store, WriteSequential, 0)

	res, err := s.Sync(ctx, ProductColor, "colorX", cands, []string{"p2", "p3"})
	require.ErrorIs(t, err, ErrPartialWrite)
	// the result reports only what was written
	assert.Equal(t, []string{"p1"}, res.Removed)
	assert.Empty(t, res.Added)

	store.fail = nil
	assert.Equal(t, "", colorOf(t, store, "p1"))
	assert.Equal(t, "", colorOf(t, store, "p3"))
}

func TestSync_BatchAtomic(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	cands := seedColorCase(store)
	store.fail = failOn("batch:update products/p3")
	s := NewSynchronizer(store, WriteBatch, 0)

	res, err := s.Sync(ctx, ProductColor, "colorX", cands, []string{"p2", "p3"})
	require.ErrorIs(t, err, errInjected)
	assert.NotErrorIs(t, err, ErrPartialWrite)
	assert.Zero(t, res.Writes())

	store.fail = nil
	assert.Equal(t, "colorX", colorOf(t, store, "p1"))
	assert.Equal(t, "", colorOf(t, store, "p3"))
}

func TestSync_RetryReconciles(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	cands := seedColorCase(store)
	store.fail = failTimes("update products/p3", 1)
	s := NewSynchronizer(store, WriteSequential, 2)
	s.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }

	res, err := s.Sync(ctx, ProductColor, "colorX", cands, []string{"p2", "p3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p3"}, res.Added)
	assert.Equal(t, []string{"p1"}, res.Removed)
	assert.Equal(t, []string{"p2"}, res.Unchanged)

	assert.Equal(t, "", colorOf(t, store, "p1"))
	assert.Equal(t, "colorX", colorOf(t, store, "p3"))
}

func TestSync_RetryGivesUp(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	cands := seedColorCase(store)
	store.fail = failOn("update products/p3")
	s := NewSynchronizer(store, WriteSequential, 2)
	s.newBackOff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }

	res, err := s.Sync(ctx, ProductColor, "colorX", cands, []string{"p2", "p3"})
	require.ErrorIs(t, err, errInjected)
	assert.Equal(t, []string{"p1"}, res.Removed)
	assert.Equal(t, []string{"p2", "p3"}, res.Unchanged)
}

func TestColorService_CreateAndMembers(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	seedColorCase(store)
	seed(store, repository.Products, "p9", repository.Document{"name": "Z", "categoryId": "Women", "color": "colorX"})
	cs := NewColorService(store, nil, DefaultPolicies())

	saved, err := cs.Create(ctx, ColorInput{Name: "Red", ColorCode: "#f00", CategoryID: "Men", ProductIDs: []string{"p3"}})
	require.NoError(t, err)
	id := saved.Color.ID
	require.NotEmpty(t, id)
	assert.Equal(t, []string{"p3"}, saved.Sync.Added)

	members, err := cs.Members(ctx, id)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "p3", members[0].ID)

	// other categories stay outside the sync scope
	upd, err := cs.Update(ctx, id, ColorInput{Name: "Dark red", CategoryID: "Women"})
	require.NoError(t, err)
	assert.Empty(t, upd.Sync.Removed)
	assert.Equal(t, id, colorOf(t, store, "p3"))
	assert.Equal(t, "colorX", colorOf(t, store, "p9"))

	c, err := cs.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dark red", c.Name)
}

func TestColorService_CreateRequiresName(t *testing.T) {
	cs := NewColorService(repository.NewMemoryStore(), nil, DefaultPolicies())
	_, err := cs.Create(context.Background(), ColorInput{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestColorService_SyncProducts(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	seedColorCase(store)
	seed(store, repository.Colors, "colorX", repository.Document{"name": "X", "categoryId": "Men"})
	cs := NewColorService(store, nil, DefaultPolicies())

	res, err := cs.SyncProducts(ctx, "colorX", "Men", []string{"p2", "p3"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Writes())

	_, err = cs.SyncProducts(ctx, "ghost", "Men", nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestColorService_DeletePolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("cascade clears products", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedColorCase(store)
		seed(store, repository.Colors, "colorX", repository.Document{"name": "X"})
		p := DefaultPolicies()
		p.References = ReferenceCascade
		cs := NewColorService(store, nil, p)

		n, err := cs.Delete(ctx, "colorX")
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, "", colorOf(t, store, "p1"))
		_, err = store.Get(ctx, repository.Colors, "colorX")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("block", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedColorCase(store)
		seed(store, repository.Colors, "colorX", repository.Document{"name": "X"})
		p := DefaultPolicies()
		p.References = ReferenceBlock
		cs := NewColorService(store, nil, p)

		_, err := cs.Delete(ctx, "colorX")
		assert.ErrorIs(t, err, ErrHasDependents)
	})

	t.Run("orphan", func(t *testing.T) {
		store := repository.NewMemoryStore()
		seedColorCase(store)
		seed(store, repository.Colors, "colorX", repository.Document{"name": "X"})
		cs := NewColorService(store, nil, DefaultPolicies())

		n, err := cs.Delete(ctx, "colorX")
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, "colorX", colorOf(t, store, "p1"))
	})
}
