package service

import (
	"context"
	"strings"

	"dashboard/internal/domain"
	"dashboard/internal/repository"
)

// Изменения приходят частичными: nil-поле не трогает сохранённое значение,
// а поля документа, которых нет в доменной модели, переживают запись.

func putString(fields repository.Document, key string, v *string) {
	if v != nil {
		fields[key] = strings.TrimSpace(*v)
	}
}

// putImage пустой адрес изображения означает «оставить прежнее»
func putImage(fields repository.Document, key string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		fields[key] = strings.TrimSpace(*v)
	}
}

func sizeValues(sizes []domain.Size) []any {
	out := make([]any, 0, len(sizes))
	for _, s := range sizes {
		out = append(out, map[string]any{"name": s.Name, "price": s.Price})
	}
	return out
}

// patchEntity пишет переданные поля и возвращает документ после записи
func patchEntity[T any](ctx context.Context, repo *repository.Entities[T], id string, fields repository.Document) (*T, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if len(fields) == 0 {
		return repo.Get(ctx, id)
	}
	if err := repo.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}
