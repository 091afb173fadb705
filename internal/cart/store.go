package cart

import (
	"context"
	"encoding/json"
	"fmt"
)

// Storage keys mirror the client-side storefront so a session survives
// reloads regardless of which surface wrote it last.
const (
	KeyPrefix       = "tiflun_cart_v1"
	AdminSessionKey = "tiflun-admin-session"
)

// Store is plain key-value persistence, last-writer-wins.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Keeper loads and saves per-session carts through a Store.
type Keeper struct {
	Store Store
}

func sessionKey(sessionID string) string {
	return KeyPrefix + ":" + sessionID
}

func (k *Keeper) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, ok, err := k.Store.Load(ctx, sessionKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("cart load: %w", err)
	}
	if !ok {
		return New(), nil
	}

	var c Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("cart decode: %w", err)
	}
	if c.Items == nil {
		c.Items = []Item{}
	}
	return &c, nil
}

func (k *Keeper) Save(ctx context.Context, sessionID string, c *Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cart encode: %w", err)
	}
	if err := k.Store.Save(ctx, sessionKey(sessionID), raw); err != nil {
		return fmt.Errorf("cart save: %w", err)
	}
	return nil
}

func (k *Keeper) Drop(ctx context.Context, sessionID string) error {
	return k.Store.Delete(ctx, sessionKey(sessionID))
}
