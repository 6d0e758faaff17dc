package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore документное хранилище поверх MongoDB.
// Ключ документа хранится в _id, уникальность ключа обеспечивает индекс _id.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var (
	_ DocumentStore = (*MongoStore)(nil)
	_ Batcher       = (*MongoStore)(nil)
)

// ConnectMongo подключается к MongoDB и проверяет соединение
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return NewMongoStore(client, database), nil
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database)}
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func toBSON(key string, data Document) bson.M {
	m := bson.M{}
	for k, v := range data {
		if k == KeyField || k == "_id" {
			continue
		}
		m[k] = v
	}
	if key != "" {
		m["_id"] = key
	}
	return m
}

func (s *MongoStore) Create(ctx context.Context, collection string, data Document) (string, error) {
	key := uuid.NewString()
	if err := s.Insert(ctx, collection, key, data); err != nil {
		return "", err
	}
	return key, nil
}

func (s *MongoStore) Insert(ctx context.Context, collection, key string, data Document) error {
	_, err := s.col(collection).InsertOne(ctx, toBSON(key, data))
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyExists
	}
	return err
}

func (s *MongoStore) Set(ctx context.Context, collection, key string, data Document) error {
	_, err := s.col(collection).ReplaceOne(ctx, bson.M{"_id": key}, toBSON(key, data), options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Get(ctx context.Context, collection, key string) (Document, error) {
	var m bson.M
	err := s.col(collection).FindOne(ctx, bson.M{"_id": key}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromBSON(m), nil
}

func (s *MongoStore) Update(ctx context.Context, collection, key string, fields Document) error {
	res, err := s.col(collection).UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": toBSON("", fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, key string) error {
	res, err := s.col(collection).DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, collection string) ([]Document, error) {
	cur, err := s.col(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var rows []bson.M
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(rows))
	for _, m := range rows {
		out = append(out, fromBSON(m))
	}
	return out, nil
}

// ApplyBatch выполняет пакет в транзакции сессии. Требует replica set.
func (s *MongoStore) ApplyBatch(ctx context.Context, ops []Op) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo session: %w", err)
	}
	defer sess.EndSession(ctx)
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		_, err := ApplySequential(sc, s, ops)
		return nil, err
	})
	return err
}

// fromBSON переводит результат драйвера в Document, заменяя _id на id
func fromBSON(m bson.M) Document {
	d := Document{}
	for k, v := range m {
		if k == "_id" {
			d[KeyField] = fmt.Sprint(plainValue(v))
			continue
		}
		d[k] = plainValue(v)
	}
	return d
}

func plainValue(v any) any {
	switch x := v.(type) {
	case bson.M:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plainValue(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plainValue(e)
		}
		return out
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time().UTC()
	default:
		return v
	}
}
