// Package repo implements the store ports against MongoDB. The order
// counter and order document are written in one session transaction; the
// server retries transient conflicts per its own policy, and whatever still
// fails with a transaction label is surfaced as ErrTransactionAborted.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tiflun/storefront/internal/service"
)

const (
	colProducts = "products"
	colOrders   = "orders"
	colCounters = "counters"
	colAdmins   = "admins"
	colKV       = "kv"
)

func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func isTxConflict(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		return ce.HasErrorLabel("TransientTransactionError") ||
			ce.HasErrorLabel("UnknownTransactionCommitResult")
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		return we.HasErrorLabel("TransientTransactionError")
	}
	return false
}

func mapTxErr(err error) error {
	if isTxConflict(err) {
		return fmt.Errorf("%w: %v", service.ErrTransactionAborted, err)
	}
	return err
}
