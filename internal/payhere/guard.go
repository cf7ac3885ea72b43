package payhere

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kavindu-dev/furnicraft-backend/pkg/redis"
)

// ReplayGuard short-circuits redelivered notifications before they reach the
// store. The notify handler stays idempotent without it; the guard only saves
// the duplicate round trip.
type ReplayGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	scope string
}

func NewReplayGuard(store redis.IdempotencyStore, ttl time.Duration, scope string) (*ReplayGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	return &ReplayGuard{
		store: store,
		ttl:   ttl,
		scope: scope,
	}, nil
}

// CheckAndMark returns true when the payment/status pair was already seen.
func (g *ReplayGuard) CheckAndMark(ctx context.Context, paymentID, statusCode string) (bool, error) {
	if paymentID == "" {
		return false, errors.New("payment id is required")
	}
	key := g.store.IdempotencyKey(g.scope, paymentID+":"+statusCode)
	set, err := g.store.SetNX(ctx, key, "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return !set, nil
}

// Delete clears the mark so a failed handler run can be retried by the
// provider.
func (g *ReplayGuard) Delete(ctx context.Context, paymentID, statusCode string) error {
	if paymentID == "" {
		return errors.New("payment id is required")
	}
	key := g.store.IdempotencyKey(g.scope, paymentID+":"+statusCode)
	return g.store.Del(ctx, key)
}
