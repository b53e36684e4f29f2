package session

import (
	"context"
	"errors"
)

// Snapshot fields persisted per session, mirroring the keys the storefront
// keeps in session-scoped storage.
const (
	FieldCart         = "cart"
	FieldOrder        = "order"
	FieldCheckout     = "checkout"
	FieldLastCustomer = "last_customer"
)

var ErrNotFound = errors.New("snapshot not found")

// Store holds opaque session-scoped snapshots. Callers treat writes as
// best-effort: a failed write is logged and the in-memory state stands.
type Store interface {
	Get(ctx context.Context, sessionID, field string) ([]byte, error)
	Set(ctx context.Context, sessionID, field string, data []byte) error
	Delete(ctx context.Context, sessionID, field string) error
}
