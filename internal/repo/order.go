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

// counterID is the single shared order-number sequence document.
const counterID = "orders"

type counterDoc struct {
	ID        string `bson:"_id"`
	LastValue int64  `bson:"lastValue"`
}

type OrderRepo struct {
	Client *mongo.Client
	DB     *mongo.Database
	// NumberPrefix prefixes every issued order number, e.g. "TIF-".
	NumberPrefix string
}

func (r *OrderRepo) col() *mongo.Collection {
	return r.DB.Collection(colOrders)
}

// CreateTx reads the counter, assigns the next number and writes order plus
// counter in one transaction. The counter is never reused: if the commit
// fails, neither document lands.
func (r *OrderRepo) CreateTx(ctx context.Context, order *models.Order) (*models.OrderRef, error) {
	session, err := r.Client.StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		var counter counterDoc
		err := r.DB.Collection(colCounters).FindOne(sc, bson.M{"_id": counterID}).Decode(&counter)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}

		next := counter.LastValue + 1
		order.ID = primitive.NewObjectID().Hex()
		order.OrderNumber = models.FormatOrderNumber(r.NumberPrefix, order.CreatedAt.Year(), next)

		if _, err := r.col().InsertOne(sc, order); err != nil {
			return nil, err
		}

		_, err = r.DB.Collection(colCounters).UpdateOne(sc,
			bson.M{"_id": counterID},
			bson.M{"$set": bson.M{"lastValue": next}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, err
		}

		return &models.OrderRef{ID: order.ID, OrderNumber: order.OrderNumber}, nil
	})
	if err != nil {
		return nil, mapTxErr(err)
	}

	return result.(*models.OrderRef), nil
}

// GetByNumberAndPhone requires an exact match on both fields. The stored
// phone is already normalized, so the caller must normalize too. A hit also
// stamps lastPublicLookupAt.
func (r *OrderRepo) GetByNumberAndPhone(ctx context.Context, orderNumber, phone string) (*models.Order, error) {
	filter := bson.M{"orderNumber": orderNumber, "customer.phone": phone}
	update := bson.M{"$set": bson.M{"lastPublicLookupAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var o models.Order
	if err := r.col().FindOneAndUpdate(ctx, filter, update, opts).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: order %s", service.ErrNotFound, orderNumber)
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) List(ctx context.Context, q service.OrderQuery) (*service.OrderPage, error) {
	filter := bson.M{}
	if q.Status != "" {
		filter["currentStatus"] = q.Status
	}

	if q.Cursor != "" {
		var last models.Order
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

	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}

	page := &service.OrderPage{
		Orders:  orders,
		HasMore: len(orders) == q.Limit,
	}
	if len(orders) > 0 {
		page.Cursor = orders[len(orders)-1].ID
	}
	return page, nil
}

// UpdateStatusTx appends the timeline entry and sets currentStatus in one
// transaction. The guard runs against the status read inside the
// transaction, so a concurrent update cannot slip an illegal move through.
func (r *OrderRepo) UpdateStatusTx(ctx context.Context, id string, entry models.StatusTimelineEntry, guard func(current models.OrderStatus) error) error {
	session, err := r.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		var o models.Order
		if err := r.col().FindOne(sc, bson.M{"_id": id}).Decode(&o); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("%w: order %s", service.ErrNotFound, id)
			}
			return nil, err
		}

		if guard != nil {
			if err := guard(o.CurrentStatus); err != nil {
				return nil, err
			}
		}

		_, err := r.col().UpdateOne(sc, bson.M{"_id": id}, bson.M{
			"$push": bson.M{"statusTimeline": entry},
			"$set": bson.M{
				"currentStatus": entry.Status,
				"updatedAt":     entry.At,
			},
		})
		return nil, err
	})
	if err != nil {
		return mapTxErr(err)
	}
	return nil
}
