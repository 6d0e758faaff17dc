// Package lock даёт взаимное исключение по ключу между администраторами,
// одновременно меняющими одну и ту же сущность.
package lock

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrBusy ключ занят дольше допустимого ожидания
var ErrBusy = errors.New("resource is busy")

// Unlock освобождает захваченные ключи
type Unlock func()

// Locker захватывает ключ или возвращает ErrBusy по истечении ожидания
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}

// LockAll захватывает несколько ключей в отсортированном порядке, без дублей
func LockAll(ctx context.Context, l Locker, keys ...string) (Unlock, error) {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	sort.Strings(uniq)

	held := make([]Unlock, 0, len(uniq))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i]()
		}
	}
	for _, k := range uniq {
		u, err := l.Lock(ctx, k)
		if err != nil {
			release()
			return nil, err
		}
		held = append(held, u)
	}
	return release, nil
}

// Memory блокировки в пределах процесса. Слот ключа живёт, пока его
// держат или ждут, затем удаляется.
type Memory struct {
	mu    sync.Mutex
	slots map[string]*slot
	wait  time.Duration
}

type slot struct {
	ch   chan struct{}
	refs int
}

var _ Locker = (*Memory)(nil)

func NewMemory(wait time.Duration) *Memory {
	return &Memory{slots: make(map[string]*slot), wait: wait}
}

func (m *Memory) acquire(key string) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		m.slots[key] = s
	}
	s.refs++
	return s
}

func (m *Memory) release(key string, s *slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(m.slots, key)
	}
}

func (m *Memory) Lock(ctx context.Context, key string) (Unlock, error) {
	s := m.acquire(key)
	if m.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.wait)
		defer cancel()
	}
	select {
	case s.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-s.ch
				m.release(key, s)
			})
		}, nil
	case <-ctx.Done():
		m.release(key, s)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrBusy
		}
		return nil, ctx.Err()
	}
}
