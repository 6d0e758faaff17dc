package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore in-memory документное хранилище. Используется в тестах,
// для локального запуска и как хранилище REST-заглушки.
type MemoryStore struct {
	mu          sync.RWMutex
	newID       func() string
	collections map[string]map[string]Document
	// порядок вставки, чтобы List был детерминированным
	order map[string][]string
}

// MemoryOption настройка MemoryStore
type MemoryOption func(*MemoryStore)

// WithIDGenerator задаёт генератор ключей для Create
func WithIDGenerator(fn func() string) MemoryOption {
	return func(m *MemoryStore) { m.newID = fn }
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		newID:       uuid.NewString,
		collections: make(map[string]map[string]Document),
		order:       make(map[string][]string),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var (
	_ DocumentStore = (*MemoryStore)(nil)
	_ Batcher       = (*MemoryStore)(nil)
	_ TxManager     = (*MemoryTx)(nil)
)

func (m *MemoryStore) put(collection, key string, data Document) {
	c, ok := m.collections[collection]
	if !ok {
		c = make(map[string]Document)
		m.collections[collection] = c
	}
	if _, exists := c[key]; !exists {
		m.order[collection] = append(m.order[collection], key)
	}
	c[key] = cloneDocument(data)
}

func (m *MemoryStore) remove(collection, key string) {
	delete(m.collections[collection], key)
	keys := m.order[collection]
	for i, k := range keys {
		if k == key {
			m.order[collection] = append(keys[:i:i], keys[i+1:]...)
			break
		}
	}
}

func (m *MemoryStore) lookup(collection, key string) (Document, bool) {
	d, ok := m.collections[collection][key]
	return d, ok
}

func (m *MemoryStore) Create(ctx context.Context, collection string, data Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.wlock(ctx)
	defer m.wunlock(ctx)
	key := m.newID()
	for {
		if _, taken := m.lookup(collection, key); !taken {
			break
		}
		key = m.newID()
	}
	m.put(collection, key, withoutKey(data))
	return key, nil
}

func (m *MemoryStore) Insert(ctx context.Context, collection, key string, data Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.lookup(collection, key); ok {
		return ErrAlreadyExists
	}
	m.put(collection, key, withoutKey(data))
	return nil
}

func (m *MemoryStore) Set(ctx context.Context, collection, key string, data Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.wlock(ctx)
	defer m.wunlock(ctx)
	m.put(collection, key, withoutKey(data))
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, collection, key string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.rlock(ctx)
	defer m.runlock(ctx)
	d, ok := m.lookup(collection, key)
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	return withKey(d, key), nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, key string, fields Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.wlock(ctx)
	defer m.wunlock(ctx)
	d, ok := m.lookup(collection, key)
	if !ok {
		return ErrNotFound
	}
	merged := cloneDocument(d)
	for k, v := range withoutKey(fields) {
		merged[k] = cloneValue(v)
	}
	m.collections[collection][key] = merged
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.wlock(ctx)
	defer m.wunlock(ctx)
	if _, ok := m.lookup(collection, key); !ok {
		return ErrNotFound
	}
	m.remove(collection, key)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.rlock(ctx)
	defer m.runlock(ctx)
	keys := m.order[collection]
	out := make([]Document, 0, len(keys))
	for _, k := range keys {
		out = append(out, withKey(m.collections[collection][k], k))
	}
	return out, nil
}

// Len число документов в коллекции
func (m *MemoryStore) Len(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

// Collections имена непустых коллекций, отсортированные
func (m *MemoryStore) Collections() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.collections))
	for name, c := range m.collections {
		if len(c) > 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

type undoEntry struct {
	collection, key string
	prev            Document
	existed         bool
}

// ApplyBatch применяет все записи или ни одной
func (m *MemoryStore) ApplyBatch(ctx context.Context, ops []Op) error {
	return NewMemoryTx(m).WithTransaction(ctx, func(ctx context.Context) error {
		undo := make([]undoEntry, 0, len(ops))
		for _, op := range ops {
			prev, existed := m.lookup(op.Collection, op.Key)
			undo = append(undo, undoEntry{collection: op.Collection, key: op.Key, prev: prev, existed: existed})
			if _, err := ApplySequential(ctx, m, []Op{op}); err != nil {
				m.rollback(undo)
				return err
			}
		}
		return nil
	})
}

func (m *MemoryStore) rollback(undo []undoEntry) {
	for i := len(undo) - 1; i >= 0; i-- {
		u := undo[i]
		if u.existed {
			m.put(u.collection, u.key, u.prev)
		} else if _, ok := m.lookup(u.collection, u.key); ok {
			m.remove(u.collection, u.key)
		}
	}
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if isTx(ctx) {
		return fn(ctx)
	}
	// Берём блокировку записи и помечаем контекст, чтобы методы хранилища пропускали внутренние локи
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}

func withKey(d Document, key string) Document {
	out := cloneDocument(d)
	out[KeyField] = key
	return out
}

func withoutKey(d Document) Document {
	if _, ok := d[KeyField]; !ok {
		return d
	}
	out := make(Document, len(d))
	for k, v := range d {
		if k != KeyField {
			out[k] = v
		}
	}
	return out
}

func cloneDocument(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case Document:
		return cloneDocument(x)
	case map[string]any:
		return map[string]any(cloneDocument(x))
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
