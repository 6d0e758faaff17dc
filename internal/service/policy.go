package service

import (
	"context"
	"errors"
	"fmt"

	"dashboard/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	// ErrHasDependents операция запрещена политикой block: на сущность ссылаются
	ErrHasDependents = errors.New("entity is still referenced")
	// ErrPartialWrite часть независимых записей применена, остальные нет
	ErrPartialWrite = errors.New("partial write")
)

// WriteMode как применяются записи, затрагивающие несколько документов
type WriteMode string

const (
	// WriteSequential независимые удалённые вызовы по одному
	WriteSequential WriteMode = "sequential"
	// WriteBatch один атомарный пакет, если хранилище умеет
	WriteBatch WriteMode = "batch"
)

// ReferencePolicy что делать со ссылками на удаляемый или переименованный ключ
type ReferencePolicy string

const (
	// ReferenceOrphan ссылки остаются висеть
	ReferenceOrphan ReferencePolicy = "orphan"
	// ReferenceCascade ссылки переписываются (или очищаются при удалении)
	ReferenceCascade ReferencePolicy = "cascade"
	// ReferenceBlock операция отклоняется, пока есть ссылки
	ReferenceBlock ReferencePolicy = "block"
)

// CollisionPolicy поведение переименования в уже занятый ключ
type CollisionPolicy string

const (
	// CollisionReject переименование отклоняется с ErrAlreadyExists
	CollisionReject CollisionPolicy = "reject"
	// CollisionOverwrite существующий документ молча перезаписывается
	CollisionOverwrite CollisionPolicy = "overwrite"
)

// Policies настройки многодокументных операций
type Policies struct {
	Collision   CollisionPolicy
	References  ReferencePolicy
	WriteMode   WriteMode
	SyncRetries uint64
}

// DefaultPolicies безопасные значения по умолчанию
func DefaultPolicies() Policies {
	return Policies{
		Collision:  CollisionReject,
		References: ReferenceOrphan,
		WriteMode:  WriteSequential,
	}
}

// applyOps применяет записи согласно режиму. Возвращает число применённых.
func applyOps(ctx context.Context, store repository.DocumentStore, mode WriteMode, ops []repository.Op) (int, error) {
	if len(ops) == 0 {
		return 0, nil
	}
	if mode == WriteBatch {
		if b, ok := store.(repository.Batcher); ok {
			if err := b.ApplyBatch(ctx, ops); err != nil {
				return 0, err
			}
			return len(ops), nil
		}
	}
	n, err := repository.ApplySequential(ctx, store, ops)
	if err != nil && n > 0 {
		return n, fmt.Errorf("%w: %d of %d writes applied: %w", ErrPartialWrite, n, len(ops), err)
	}
	return n, err
}

// findReferencing ключи документов коллекции, у которых field == value
func findReferencing(ctx context.Context, store repository.DocumentStore, collection, field, value string) ([]string, error) {
	docs, err := store.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, d := range docs {
		if refValue(d, field) == value {
			keys = append(keys, refValue(d, repository.KeyField))
		}
	}
	return keys, nil
}

func refValue(d repository.Document, field string) string {
	v, ok := d[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// referenceOps записи, переписывающие ссылку field на newValue ("" означает очистку)
func referenceOps(collection, field, newValue string, keys []string) []repository.Op {
	ops := make([]repository.Op, 0, len(keys))
	for _, k := range keys {
		ops = append(ops, repository.Op{
			Kind:       repository.OpUpdate,
			Collection: collection,
			Key:        k,
			Fields:     repository.Document{field: newValue},
		})
	}
	return ops
}
