package repository

import (
	"context"
	"encoding/json"
	"fmt"
)

// Encode переводит значение в документ. Поле id в документ не попадает.
func Encode(v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	delete(d, KeyField)
	return d, nil
}

// Decode заполняет v из документа. Нормализация формы (размеры, адрес)
// выполняется методами UnmarshalJSON доменных типов.
func Decode(d Document, v any) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// Entities типизированный доступ к одной коллекции
type Entities[T any] struct {
	store      DocumentStore
	collection string
}

func NewEntities[T any](store DocumentStore, collection string) *Entities[T] {
	return &Entities[T]{store: store, collection: collection}
}

func (e *Entities[T]) Collection() string { return e.collection }

func (e *Entities[T]) Get(ctx context.Context, key string) (*T, error) {
	d, err := e.store.Get(ctx, e.collection, key)
	if err != nil {
		return nil, err
	}
	var v T
	if err := Decode(d, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (e *Entities[T]) List(ctx context.Context) ([]T, error) {
	docs, err := e.store.List(ctx, e.collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		var v T
		if err := Decode(d, &v); err != nil {
			return nil, fmt.Errorf("%s/%v: %w", e.collection, d[KeyField], err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Create сохраняет значение под сгенерированным ключом
func (e *Entities[T]) Create(ctx context.Context, v T) (string, error) {
	d, err := Encode(v)
	if err != nil {
		return "", err
	}
	return e.store.Create(ctx, e.collection, d)
}

// Update пишет только переданные поля, остальные поля документа сохраняются
func (e *Entities[T]) Update(ctx context.Context, key string, fields Document) error {
	return e.store.Update(ctx, e.collection, key, fields)
}

func (e *Entities[T]) Delete(ctx context.Context, key string) error {
	return e.store.Delete(ctx, e.collection, key)
}
