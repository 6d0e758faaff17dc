package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"dashboard/internal/domain"
	"dashboard/internal/lock"
	"dashboard/internal/logger"
	"dashboard/internal/repository"
)

// categoryReferences поля, которые ссылаются на ключ категории
var categoryReferences = []BackReference{
	{Collection: repository.Products, Field: "categoryId"},
	{Collection: repository.Brands, Field: "categoryId"},
	{Collection: repository.Colors, Field: "categoryId"},
}

// NaturalKey ключ документа из отображаемого имени
func NaturalKey(name string) (string, error) {
	key := strings.TrimSpace(name)
	if key == "" || key == "." || key == ".." || strings.Contains(key, "/") || len(key) > 1500 {
		return "", fmt.Errorf("%w: name %q cannot be used as a key", ErrInvalidInput, name)
	}
	return key, nil
}

func lockKey(collection, key string) string { return collection + "/" + key }

// RenameInput новое имя и, если загружено, новое изображение
type RenameInput struct {
	NewName  string
	ImageURL string
}

// RenameOutcome итог переименования
type RenameOutcome struct {
	Category domain.Category `json:"category"`
	Renamed  bool            `json:"renamed"`
	Cascaded int             `json:"cascaded"`
}

// RenameCoordinator меняет ключ документа, производный от имени:
// создаёт документ под новым ключом с копией полей и удаляет старый.
type RenameCoordinator struct {
	store    repository.DocumentStore
	locks    lock.Locker
	policies Policies
}

func NewRenameCoordinator(store repository.DocumentStore, locks lock.Locker, p Policies) *RenameCoordinator {
	if locks == nil {
		locks = lock.NewMemory(0)
	}
	return &RenameCoordinator{store: store, locks: locks, policies: p}
}

// Rename переименовывает категорию oldKey. Если ключ не меняется,
// обновляет документ на месте.
func (rc *RenameCoordinator) Rename(ctx context.Context, oldKey string, in RenameInput) (*RenameOutcome, error) {
	newKey, err := NaturalKey(in.NewName)
	if err != nil {
		return nil, err
	}
	unlock, err := lock.LockAll(ctx, rc.locks, lockKey(repository.Categories, oldKey), lockKey(repository.Categories, newKey))
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := rc.store.Get(ctx, repository.Categories, oldKey)
	if err != nil {
		return nil, err
	}
	imageURL := in.ImageURL
	if imageURL == "" {
		imageURL = refValue(current, "imageUrl")
	}

	if newKey == oldKey {
		if err := rc.store.Update(ctx, repository.Categories, oldKey, repository.Document{
			"name":     newKey,
			"imageUrl": imageURL,
		}); err != nil {
			return nil, err
		}
		return &RenameOutcome{Category: domain.Category{ID: oldKey, Name: newKey, ImageURL: imageURL}}, nil
	}

	log := logger.WithContext(ctx).WithFields(logrus.Fields{"from": oldKey, "to": newKey})

	var cascade []repository.Op
	if rc.policies.References != ReferenceOrphan {
		for _, ref := range categoryReferences {
			keys, err := findReferencing(ctx, rc.store, ref.Collection, ref.Field, oldKey)
			if err != nil {
				return nil, err
			}
			cascade = append(cascade, referenceOps(ref.Collection, ref.Field, newKey, keys)...)
		}
		if rc.policies.References == ReferenceBlock && len(cascade) > 0 {
			return nil, fmt.Errorf("%w: category %q has %d dependents", ErrHasDependents, oldKey, len(cascade))
		}
	}

	next := repository.Document{}
	for k, v := range current {
		if k != repository.KeyField {
			next[k] = v
		}
	}
	next["name"] = newKey
	next["imageUrl"] = imageURL

	create := repository.Op{Kind: repository.OpInsert, Collection: repository.Categories, Key: newKey, Fields: next}
	if rc.policies.Collision == CollisionOverwrite {
		create.Kind = repository.OpSet
	}
	ops := make([]repository.Op, 0, len(cascade)+2)
	ops = append(ops, create)
	ops = append(ops, cascade...)
	ops = append(ops, repository.Op{Kind: repository.OpDelete, Collection: repository.Categories, Key: oldKey})

	n, err := applyOps(ctx, rc.store, rc.policies.WriteMode, ops)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, fmt.Errorf("category %q: %w", newKey, repository.ErrAlreadyExists)
		}
		if errors.Is(err, ErrPartialWrite) {
			// new document exists; old one and possibly some dependents were not updated
			log.WithError(err).WithField("applied", n).Error("category rename left both documents")
		}
		return nil, err
	}
	log.WithField("cascaded", len(cascade)).Info("category renamed")
	return &RenameOutcome{
		Category: domain.Category{ID: newKey, Name: newKey, ImageURL: imageURL},
		Renamed:  true,
		Cascaded: len(cascade),
	}, nil
}
