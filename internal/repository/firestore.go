package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore документное хранилище поверх Cloud Firestore.
// Совместимо с данными, записанными исходной админкой (ключ = id документа).
type FirestoreStore struct {
	client *firestore.Client
}

var (
	_ DocumentStore = (*FirestoreStore)(nil)
	_ Batcher       = (*FirestoreStore)(nil)
)

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) Close() error { return s.client.Close() }

func (s *FirestoreStore) doc(collection, key string) *firestore.DocumentRef {
	return s.client.Collection(collection).Doc(key)
}

func (s *FirestoreStore) Create(ctx context.Context, collection string, data Document) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, map[string]any(withoutKey(data)))
	if err != nil {
		return "", mapFirestoreErr(err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Insert(ctx context.Context, collection, key string, data Document) error {
	_, err := s.doc(collection, key).Create(ctx, map[string]any(withoutKey(data)))
	return mapFirestoreErr(err)
}

func (s *FirestoreStore) Set(ctx context.Context, collection, key string, data Document) error {
	_, err := s.doc(collection, key).Set(ctx, map[string]any(withoutKey(data)))
	return mapFirestoreErr(err)
}

func (s *FirestoreStore) Get(ctx context.Context, collection, key string) (Document, error) {
	snap, err := s.doc(collection, key).Get(ctx)
	if err != nil {
		return nil, mapFirestoreErr(err)
	}
	return snapshotDocument(snap), nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, key string, fields Document) error {
	_, err := s.doc(collection, key).Update(ctx, firestoreUpdates(fields))
	return mapFirestoreErr(err)
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, key string) error {
	_, err := s.doc(collection, key).Delete(ctx, firestore.Exists)
	return mapFirestoreErr(err)
}

func (s *FirestoreStore) List(ctx context.Context, collection string) ([]Document, error) {
	snaps, err := s.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, mapFirestoreErr(err)
	}
	out := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, snapshotDocument(snap))
	}
	return out, nil
}

// ApplyBatch выполняет пакет в транзакции Firestore
func (s *FirestoreStore) ApplyBatch(ctx context.Context, ops []Op) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, op := range ops {
			ref := s.doc(op.Collection, op.Key)
			var err error
			switch op.Kind {
			case OpInsert:
				err = tx.Create(ref, map[string]any(withoutKey(op.Fields)))
			case OpSet:
				err = tx.Set(ref, map[string]any(withoutKey(op.Fields)))
			case OpUpdate:
				err = tx.Update(ref, firestoreUpdates(op.Fields))
			case OpDelete:
				err = tx.Delete(ref, firestore.Exists)
			default:
				err = fmt.Errorf("unknown op %v", op.Kind)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	return mapFirestoreErr(err)
}

func firestoreUpdates(fields Document) []firestore.Update {
	ups := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		if k == KeyField {
			continue
		}
		ups = append(ups, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	return ups
}

func snapshotDocument(snap *firestore.DocumentSnapshot) Document {
	d := Document(snap.Data())
	if d == nil {
		d = Document{}
	}
	d[KeyField] = snap.Ref.ID
	return d
}

func mapFirestoreErr(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	default:
		return err
	}
}
