package repository

import (
	"context"
	"errors"
	"strings"

	"dashboard/internal/domain"
)

var (
	// ErrNotFound возвращается, когда документ не найден
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists возвращается Insert, если ключ уже занят
	ErrAlreadyExists = errors.New("already exists")
)

// Коллекции документного хранилища
const (
	Categories  = "categories"
	Products    = "products"
	Brands      = "brands"
	Colors      = "colors"
	Orders      = "orders"
	PromoImages = "promo-images"
	SocialLinks = "socialLinks"
)

// KeyField поле, под которым ключ документа отдаётся при чтении.
// В самом документе ключ не хранится.
const KeyField = "id"

// Document плоская карта полей документа
type Document map[string]any

// DocumentStore удалённое документное хранилище с коллекциями
type DocumentStore interface {
	// Create сохраняет документ под сгенерированным ключом и возвращает ключ
	Create(ctx context.Context, collection string, data Document) (string, error)
	// Insert создаёт документ под заданным ключом, ErrAlreadyExists если ключ занят
	Insert(ctx context.Context, collection, key string, data Document) error
	// Set перезаписывает документ целиком, создавая его при отсутствии
	Set(ctx context.Context, collection, key string, data Document) error
	Get(ctx context.Context, collection, key string) (Document, error)
	// Update меняет только переданные поля
	Update(ctx context.Context, collection, key string, fields Document) error
	Delete(ctx context.Context, collection, key string) error
	List(ctx context.Context, collection string) ([]Document, error)
}

// OpKind вид записи в пакете
type OpKind int

const (
	OpInsert OpKind = iota
	OpSet
	OpUpdate
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpSet:
		return "set"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Op одна запись пакета
type Op struct {
	Kind       OpKind
	Collection string
	Key        string
	Fields     Document
}

// Batcher хранилище, умеющее применить пакет записей атомарно
type Batcher interface {
	ApplyBatch(ctx context.Context, ops []Op) error
}

// TxManager абстракция транзакции. Для in-memory это глобальная блокировка записи.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ApplySequential выполняет записи по одной, останавливаясь на первой ошибке.
// Возвращает число успешно применённых записей.
func ApplySequential(ctx context.Context, store DocumentStore, ops []Op) (int, error) {
	for i, op := range ops {
		var err error
		switch op.Kind {
		case OpInsert:
			err = store.Insert(ctx, op.Collection, op.Key, op.Fields)
		case OpSet:
			err = store.Set(ctx, op.Collection, op.Key, op.Fields)
		case OpUpdate:
			err = store.Update(ctx, op.Collection, op.Key, op.Fields)
		case OpDelete:
			err = store.Delete(ctx, op.Collection, op.Key)
		}
		if err != nil {
			return i, err
		}
	}
	return len(ops), nil
}

// ProductFilter параметры фильтрации списка товаров
type ProductFilter struct {
	// NameSubstring ищется в имени и в id товара
	NameSubstring string
	CategoryID    string
	Color         string
	MinPrice      *float64
	MaxPrice      *float64
}

// Match проверяет, проходит ли товар фильтр
func (f ProductFilter) Match(p domain.Product) bool {
	if !containsIgnoreCase(p.Name, f.NameSubstring) && !containsIgnoreCase(p.ID, f.NameSubstring) {
		return false
	}
	if f.CategoryID != "" && p.CategoryID != f.CategoryID {
		return false
	}
	if f.Color != "" && p.Color != f.Color {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
