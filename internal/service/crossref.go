package service

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"dashboard/internal/logger"
	"dashboard/internal/repository"
)

// BackReference однозначное поле-ссылка на родителя в зависимых документах
type BackReference struct {
	Collection string
	Field      string
}

// ProductColor product.color -> color.id
var ProductColor = BackReference{Collection: repository.Products, Field: "color"}

// Dependent кандидат на синхронизацию: ключ и текущее значение ссылки
type Dependent struct {
	ID  string
	Ref string
}

// SyncResult какие зависимые документы получили ссылку, потеряли её или не трогались
type SyncResult struct {
	Added     []string `json:"added"`
	Removed   []string `json:"removed"`
	Unchanged []string `json:"unchanged"`
}

// Writes число выполненных записей
func (r SyncResult) Writes() int { return len(r.Added) + len(r.Removed) }

// PlanSync сверяет ссылки кандидатов с выбранным множеством.
// Выбран и ссылается не на parent: записать parent. Не выбран и ссылается: очистить.
// Уже верное состояние не переписывается.
func PlanSync(ref BackReference, parentID string, candidates []Dependent, selected []string) (SyncResult, []repository.Op) {
	want := make(map[string]struct{}, len(selected))
	for _, id := range selected {
		want[id] = struct{}{}
	}
	var res SyncResult
	var ops []repository.Op
	for _, c := range candidates {
		_, isSelected := want[c.ID]
		switch {
		case isSelected && c.Ref != parentID:
			res.Added = append(res.Added, c.ID)
			ops = append(ops, refUpdate(ref, c.ID, parentID))
		case !isSelected && c.Ref == parentID:
			res.Removed = append(res.Removed, c.ID)
			ops = append(ops, refUpdate(ref, c.ID, ""))
		default:
			res.Unchanged = append(res.Unchanged, c.ID)
		}
	}
	return res, ops
}

func refUpdate(ref BackReference, key, value string) repository.Op {
	return repository.Op{
		Kind:       repository.OpUpdate,
		Collection: ref.Collection,
		Key:        key,
		Fields:     repository.Document{ref.Field: value},
	}
}

// Synchronizer приводит обратные ссылки ограниченного набора кандидатов
// к выбранному множеству.
type Synchronizer struct {
	store      repository.DocumentStore
	mode       WriteMode
	retries    uint64
	newBackOff func() backoff.BackOff
}

func NewSynchronizer(store repository.DocumentStore, mode WriteMode, retries uint64) *Synchronizer {
	return &Synchronizer{
		store:   store,
		mode:    mode,
		retries: retries,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 100 * time.Millisecond
			b.MaxElapsedTime = 10 * time.Second
			return b
		},
	}
}

// Sync применяет план. При retries > 0 после сбоя кандидаты перечитываются
// и план строится заново, пока состояние не сойдётся.
func (s *Synchronizer) Sync(ctx context.Context, ref BackReference, parentID string, candidates []Dependent, selected []string) (SyncResult, error) {
	log := logger.WithContext(ctx).WithFields(logrus.Fields{
		"collection": ref.Collection,
		"field":      ref.Field,
		"parent":     parentID,
	})
	res, err := s.syncOnce(ctx, ref, parentID, candidates, selected)
	if err == nil || s.retries == 0 {
		if err != nil {
			log.WithError(err).WithField("written", res.Writes()).Warn("back-reference sync failed")
		}
		return res, err
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	written := newWriteLog(res)
	attempt := 0
	op := func() error {
		attempt++
		current, err := s.reload(ctx, ref, ids)
		if err != nil {
			return err
		}
		r, err := s.syncOnce(ctx, ref, parentID, current, selected)
		written.add(r)
		if err != nil {
			log.WithError(err).WithField("attempt", attempt).Warn("back-reference sync retry failed")
		}
		return err
	}
	b := backoff.WithContext(backoff.WithMaxRetries(s.newBackOff(), s.retries), ctx)
	err = backoff.Retry(op, b)
	return written.result(ids), err
}

func (s *Synchronizer) syncOnce(ctx context.Context, ref BackReference, parentID string, candidates []Dependent, selected []string) (SyncResult, error) {
	plan, ops := PlanSync(ref, parentID, candidates, selected)
	n, err := applyOps(ctx, s.store, s.mode, ops)
	if err == nil {
		return plan, nil
	}
	// keep only what was actually written
	applied := SyncResult{}
	for _, op := range ops[:n] {
		if op.Fields[ref.Field] == parentID {
			applied.Added = append(applied.Added, op.Key)
		} else {
			applied.Removed = append(applied.Removed, op.Key)
		}
	}
	return applied, err
}

// reload текущие значения ссылок. Удалённые кандидаты пропускаются.
func (s *Synchronizer) reload(ctx context.Context, ref BackReference, ids []string) ([]Dependent, error) {
	out := make([]Dependent, 0, len(ids))
	for _, id := range ids {
		d, err := s.store.Get(ctx, ref.Collection, id)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Dependent{ID: id, Ref: refValue(d, ref.Field)})
	}
	return out, nil
}

type writeLog struct {
	added, removed map[string]struct{}
}

func newWriteLog(r SyncResult) *writeLog {
	w := &writeLog{added: map[string]struct{}{}, removed: map[string]struct{}{}}
	w.add(r)
	return w
}

func (w *writeLog) add(r SyncResult) {
	for _, id := range r.Added {
		w.added[id] = struct{}{}
		delete(w.removed, id)
	}
	for _, id := range r.Removed {
		w.removed[id] = struct{}{}
		delete(w.added, id)
	}
}

func (w *writeLog) result(order []string) SyncResult {
	var res SyncResult
	for _, id := range order {
		switch {
		case has(w.added, id):
			res.Added = append(res.Added, id)
		case has(w.removed, id):
			res.Removed = append(res.Removed, id)
		default:
			res.Unchanged = append(res.Unchanged, id)
		}
	}
	return res
}

func has(m map[string]struct{}, k string) bool {
	_, ok := m[k]
	return ok
}
