package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tiflun/storefront/internal/models"
	"github.com/tiflun/storefront/internal/service"
)

type AdminRepo struct {
	DB *mongo.Database
}

func (r *AdminRepo) col() *mongo.Collection {
	return r.DB.Collection(colAdmins)
}

func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	if err := r.col().FindOne(ctx, bson.M{"email": email}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: admin %s", service.ErrNotFound, email)
		}
		return nil, err
	}
	return &a, nil
}

// EnsureAdmin seeds or refreshes the configured admin account at startup.
func (r *AdminRepo) EnsureAdmin(ctx context.Context, email, passwordHash string) error {
	update := bson.M{
		"$set":         bson.M{"passwordHash": passwordHash},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID().Hex(), "email": email},
	}
	_, err := r.col().UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
	return err
}
