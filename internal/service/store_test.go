package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"dashboard/internal/repository"
)

var errInjected = errors.New("injected failure")

// recordingStore пишет журнал вызовов и умеет падать на выбранной операции
type recordingStore struct {
	*repository.MemoryStore

	mu    sync.Mutex
	calls []string
	// fail возвращает ошибку для операции "<op> <collection>/<key>"
	fail func(call string) error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: repository.NewMemoryStore()}
}

func (r *recordingStore) record(op, collection, key string) error {
	call := fmt.Sprintf("%s %s/%s", op, collection, key)
	r.mu.Lock()
	r.calls = append(r.calls, call)
	fail := r.fail
	r.mu.Unlock()
	if fail != nil {
		return fail(call)
	}
	return nil
}

// writes журнал записей (без чтений)
func (r *recordingStore) writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		if strings.HasPrefix(c, "get ") || strings.HasPrefix(c, "list ") {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (r *recordingStore) reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

func (r *recordingStore) Create(ctx context.Context, collection string, data repository.Document) (string, error) {
	if err := r.record("create", collection, "*"); err != nil {
		return "", err
	}
	return r.MemoryStore.Create(ctx, collection, data)
}

func (r *recordingStore) Insert(ctx context.Context, collection, key string, data repository.Document) error {
	if err := r.record("insert", collection, key); err != nil {
		return err
	}
	return r.MemoryStore.Insert(ctx, collection, key, data)
}

func (r *recordingStore) Set(ctx context.Context, collection, key string, data repository.Document) error {
	if err := r.record("set", collection, key); err != nil {
		return err
	}
	return r.MemoryStore.Set(ctx, collection, key, data)
}

func (r *recordingStore) Get(ctx context.Context, collection, key string) (repository.Document, error) {
	if err := r.record("get", collection, key); err != nil {
		return nil, err
	}
	return r.MemoryStore.Get(ctx, collection, key)
}

func (r *recordingStore) Update(ctx context.Context, collection, key string, fields repository.Document) error {
	if err := r.record("update", collection, key); err != nil {
		return err
	}
	return r.MemoryStore.Update(ctx, collection, key, fields)
}

func (r *recordingStore) Delete(ctx context.Context, collection, key string) error {
	if err := r.record("delete", collection, key); err != nil {
		return err
	}
	return r.MemoryStore.Delete(ctx, collection, key)
}

func (r *recordingStore) List(ctx context.Context, collection string) ([]repository.Document, error) {
	if err := r.record("list", collection, ""); err != nil {
		return nil, err
	}
	return r.MemoryStore.List(ctx, collection)
}

// ApplyBatch отказ на любой операции пакета не применяет ни одной
func (r *recordingStore) ApplyBatch(ctx context.Context, ops []repository.Op) error {
	for _, op := range ops {
		if err := r.record("batch:"+op.Kind.String(), op.Collection, op.Key); err != nil {
			return err
		}
	}
	return r.MemoryStore.ApplyBatch(ctx, ops)
}

func seed(store repository.DocumentStore, collection, key string, d repository.Document) {
	if err := store.Set(context.Background(), collection, key, d); err != nil {
		panic(err)
	}
}

// failOn ошибка на первом вызове call
func failOn(call string) func(string) error {
	return func(c string) error {
		if c == call {
			return errInjected
		}
		return nil
	}
}
