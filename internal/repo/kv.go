package repo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type kvDoc struct {
	ID        string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// KVStore is plain key-value persistence for session state (carts, admin
// session). Writes replace wholesale: last writer wins.
type KVStore struct {
	DB *mongo.Database
}

func (s *KVStore) col() *mongo.Collection {
	return s.DB.Collection(colKV)
}

func (s *KVStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var doc kvDoc
	if err := s.col().FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return doc.Value, true, nil
}

func (s *KVStore) Save(ctx context.Context, key string, value []byte) error {
	doc := kvDoc{ID: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := s.col().ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	_, err := s.col().DeleteOne(ctx, bson.M{"_id": key})
	return err
}
