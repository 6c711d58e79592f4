package repository

import (
	"context"
	"errors"

	"stockroom-api/internal/model"
)

// Sentinel errors returned by all backends. Services translate these into
// API errors; everything else is treated as a storage failure.
var (
	// ErrNotFound is returned when no record matches. Lookups scoped to an
	// owner return it both for absent records and for records owned by a
	// different account, so non-existence and foreign ownership are
	// indistinguishable to callers.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when an account with the same email
	// (case-insensitive) already exists.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrDuplicateSKU is returned when the owner already has a different
	// item with the same SKU.
	ErrDuplicateSKU = errors.New("sku already in use")
)

// AccountRepository defines account data access methods.
type AccountRepository interface {
	// CreateAccount persists a new account. Returns ErrDuplicateEmail when
	// the email is taken.
	CreateAccount(ctx context.Context, account *model.Account) error

	// GetAccountByEmail finds an account by email, case-insensitively.
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)

	// GetAccountByID finds an account by its identifier.
	GetAccountByID(ctx context.Context, id string) (*model.Account, error)
}

// ItemRepository defines inventory item data access methods. Every lookup
// and mutation is scoped by owner.
type ItemRepository interface {
	// ListItems returns all items owned by ownerID in creation order.
	ListItems(ctx context.Context, ownerID string) ([]model.Item, error)

	// GetItem returns the item only if it exists and belongs to ownerID.
	GetItem(ctx context.Context, ownerID, itemID string) (*model.Item, error)

	// CreateItem persists a new item. Returns ErrDuplicateSKU when the
	// owner already uses the SKU.
	CreateItem(ctx context.Context, item *model.Item) error

	// UpdateItem replaces the mutable fields of an existing item owned by
	// item.OwnerID. Returns ErrNotFound or ErrDuplicateSKU.
	UpdateItem(ctx context.Context, item *model.Item) error

	// DeleteItem removes the item if it belongs to ownerID. Returns
	// ErrNotFound otherwise; a repeated delete also returns ErrNotFound.
	DeleteItem(ctx context.Context, ownerID, itemID string) error
}

// Store bundles both repositories behind a single backend connection.
type Store interface {
	AccountRepository
	ItemRepository

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Stats returns backend counters for the status endpoint.
	Stats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the backend connection.
	Close() error
}
