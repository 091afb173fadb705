package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tiflun/storefront/internal/models"
	"github.com/tiflun/storefront/internal/service"
)

type ProductRepo struct {
	DB *mongo.Database
}

func (r *ProductRepo) col() *mongo.Collection {
	return r.DB.Collection(colProducts)
}

// List pages createdAt-descending with an id tiebreak. The cursor is the
// last document id of the previous page; hasMore mirrors a full page, the
// same signal the storefront client keys off.
func (r *ProductRepo) List(ctx context.Context, q service.ProductQuery) (*service.ProductPage, error) {
	filter := bson.M{"status": q.Status}
	if q.Category != "" {
		filter["categories"] = q.Category
	}

	if q.Cursor != "" {
		var last models.Product
		err := r.col().FindOne(ctx, bson.M{"_id": q.Cursor}).Decode(&last)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("%w: cursor %s", service.ErrNotFound, q.Cursor)
			}
			return nil, err
		}
		filter["$or"] = bson.A{
			bson.M{"createdAt": bson.M{"$lt": last.CreatedAt}},
			bson.M{"createdAt": last.CreatedAt, "_id": bson.M{"$lt": last.ID}},
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(q.Limit))

	cur, err := r.col().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}

	page := &service.ProductPage{
		Products: products,
		HasMore:  len(products) == q.Limit,
	}
	if len(products) > 0 {
		page.Cursor = products[len(products)-1].ID
	}
	return page, nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: product %s", service.ErrNotFound, id)
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var p models.Product
	if err := r.col().FindOne(ctx, bson.M{"slug": slug}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: slug %s", service.ErrNotFound, slug)
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Create(ctx context.Context, p *models.Product) (string, error) {
	p.ID = primitive.NewObjectID().Hex()
	if _, err := r.col().InsertOne(ctx, p); err != nil {
		return "", err
	}
	return p.ID, nil
}

func (r *ProductRepo) Update(ctx context.Context, id string, p *models.Product) (*models.Product, error) {
	var existing models.Product
	if err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: product %s", service.ErrNotFound, id)
		}
		return nil, err
	}

	p.ID = id
	p.CreatedAt = existing.CreatedAt
	if _, err := r.col().ReplaceOne(ctx, bson.M{"_id": id}, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Archive soft-deletes: the product stays readable for order history.
func (r *ProductRepo) Archive(ctx context.Context, id string) error {
	res, err := r.col().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":    models.ProductArchived,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: product %s", service.ErrNotFound, id)
	}
	return nil
}
