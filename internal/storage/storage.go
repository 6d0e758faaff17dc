// Package storage объектное хранилище изображений. Загрузка однократная:
// старые файлы при замене не удаляются.
package storage

import (
	"context"
	"io"
)

// BlobStore сохраняет объект и возвращает постоянный URL для чтения
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}
