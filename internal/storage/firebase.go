package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Firebase хранит объекты в бакете Firebase Storage. URL совпадает с тем,
// что отдаёт getDownloadURL в клиентском SDK: токен скачивания в метаданных.
type Firebase struct {
	bucket *gcs.BucketHandle
	name   string
}

var _ BlobStore = (*Firebase)(nil)

func NewFirebase(bucket *gcs.BucketHandle, name string) *Firebase {
	return &Firebase{bucket: bucket, name: name}
}

func (f *Firebase) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	token := uuid.NewString()
	w := f.bucket.Object(key).If(gcs.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		f.name, url.PathEscape(key), token), nil
}
