package repository

import (
	"context"
	"testing"
	"time"

	"stockroom-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount(id, email string) *model.Account {
	return &model.Account{
		ID:           id,
		Name:         "Test",
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
}

func testItem(id, ownerID, sku string) *model.Item {
	now := time.Now().UTC()
	return &model.Item{
		ID:        id,
		OwnerID:   ownerID,
		Name:      "Thing",
		SKU:       sku,
		Category:  "Misc",
		Quantity:  1,
		Price:     1.5,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryStore_AccountEmailUniqueness(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.CreateAccount(ctx, testAccount("a1", "a@x.com")))

	err := store.CreateAccount(ctx, testAccount("a2", "A@X.COM"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	found, err := store.GetAccountByEmail(ctx, "A@x.Com")
	require.NoError(t, err)
	assert.Equal(t, "a1", found.ID)
}

func TestMemoryStore_AccountLookupMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.GetAccountByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetAccountByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_SKUScopedToOwner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.CreateItem(ctx, testItem("i1", "owner-a", "X001")))
	require.NoError(t, store.CreateItem(ctx, testItem("i2", "owner-b", "X001")))

	err := store.CreateItem(ctx, testItem("i3", "owner-a", "X001"))
	assert.ErrorIs(t, err, ErrDuplicateSKU)
}

func TestMemoryStore_OwnerScopedAccess(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.CreateItem(ctx, testItem("i1", "owner-a", "X001")))

	_, err := store.GetItem(ctx, "owner-b", "i1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.DeleteItem(ctx, "owner-b", "i1"), ErrNotFound)

	foreign := testItem("i1", "owner-b", "X002")
	assert.ErrorIs(t, store.UpdateItem(ctx, foreign), ErrNotFound)

	// Still present for the owner.
	it, err := store.GetItem(ctx, "owner-a", "i1")
	require.NoError(t, err)
	assert.Equal(t, "X001", it.SKU)
}

func TestMemoryStore_ListCreationOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.CreateItem(ctx, testItem("i1", "owner-a", "A")))
	require.NoError(t, store.CreateItem(ctx, testItem("i2", "owner-a", "B")))
	require.NoError(t, store.CreateItem(ctx, testItem("i3", "owner-a", "C")))

	items, err := store.ListItems(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"i1", "i2", "i3"}, []string{items[0].ID, items[1].ID, items[2].ID})
}

func TestMemoryStore_UpdateThenDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.CreateItem(ctx, testItem("i1", "owner-a", "X001")))

	updated := testItem("i1", "owner-a", "X002")
	updated.Quantity = 7
	require.NoError(t, store.UpdateItem(ctx, updated))

	it, err := store.GetItem(ctx, "owner-a", "i1")
	require.NoError(t, err)
	assert.Equal(t, "X002", it.SKU)
	assert.Equal(t, int64(7), it.Quantity)

	require.NoError(t, store.DeleteItem(ctx, "owner-a", "i1"))
	assert.ErrorIs(t, store.DeleteItem(ctx, "owner-a", "i1"), ErrNotFound)
}

func TestMemoryStore_Stats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.CreateAccount(ctx, testAccount("a1", "a@x.com")))
	require.NoError(t, store.CreateItem(ctx, testItem("i1", "a1", "X001")))

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats["accounts"])
	assert.Equal(t, int64(1), stats["items"])
}
