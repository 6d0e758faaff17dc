package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

var (
	// ErrNotImage содержимое не декодируется как изображение
	ErrNotImage = errors.New("file is not a supported image")
	// ErrTooLarge файл больше допустимого размера
	ErrTooLarge = errors.New("file is too large")
	// ErrBadFolder загрузка в неизвестную папку
	ErrBadFolder = errors.New("unknown upload folder")
)

// AllowedExtensions расширения изображений, которые принимает Uploader
var AllowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff"}

var unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// Upload результат загрузки
type Upload struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// Uploader проверяет изображение и кладёт его в BlobStore
// под ключом <folder>/<unix ms>_<имя файла>.
type Uploader struct {
	blobs    BlobStore
	folders  map[string]struct{}
	maxBytes int64
	now      func() time.Time
}

func NewUploader(blobs BlobStore, maxBytes int64, folders ...string) *Uploader {
	set := make(map[string]struct{}, len(folders))
	for _, f := range folders {
		set[f] = struct{}{}
	}
	return &Uploader{blobs: blobs, folders: set, maxBytes: maxBytes, now: time.Now}
}

// ObjectKey ключ объекта для папки и исходного имени файла
func (u *Uploader) ObjectKey(folder, filename string) string {
	return fmt.Sprintf("%s/%d_%s", folder, u.now().UnixMilli(), safeFilename(filename))
}

func safeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" || name == "." {
		return "image"
	}
	return name
}

func extensionAllowed(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range AllowedExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

// UploadImage загружает изображение. Второй шаг (получение URL) входит в Put;
// если он упадёт после записи, файл останется сиротой.
func (u *Uploader) UploadImage(ctx context.Context, folder, filename string, r io.Reader) (*Upload, error) {
	if _, ok := u.folders[folder]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadFolder, folder)
	}
	if !extensionAllowed(filename) {
		return nil, fmt.Errorf("%w: extension of %q", ErrNotImage, filename)
	}
	limit := u.maxBytes
	if limit <= 0 {
		limit = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	contentType := http.DetectContentType(data)
	key := u.ObjectKey(folder, filename)
	url, err := u.blobs.Put(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &Upload{URL: url, Key: key, ContentType: contentType, Width: b.Dx(), Height: b.Dy()}, nil
}
