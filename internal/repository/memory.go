package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"stockroom-api/internal/model"
)

// MemoryStore is a mutex-guarded in-memory Store. It backs tests and the
// "memory" DB_TYPE for local development; contents are lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]model.Account
	items    map[string]model.Item
	seq      map[string]int
	nextSeq  int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]model.Account),
		items:    make(map[string]model.Item),
		seq:      make(map[string]int),
	}
}

// CreateAccount persists a new account.
func (s *MemoryStore) CreateAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return ErrDuplicateEmail
		}
	}
	s.accounts[account.ID] = *account
	return nil
}

// GetAccountByEmail finds an account by email, case-insensitively.
func (s *MemoryStore) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			found := a
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// GetAccountByID finds an account by its identifier.
func (s *MemoryStore) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	found := a
	return &found, nil
}

// ListItems returns all items owned by ownerID in creation order.
func (s *MemoryStore) ListItems(ctx context.Context, ownerID string) ([]model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []model.Item{}
	for _, it := range s.items {
		if it.OwnerID == ownerID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return s.seq[items[i].ID] < s.seq[items[j].ID]
	})
	return items, nil
}

// GetItem returns the item only if it belongs to ownerID.
func (s *MemoryStore) GetItem(ctx context.Context, ownerID, itemID string) (*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[itemID]
	if !ok || it.OwnerID != ownerID {
		return nil, ErrNotFound
	}
	found := it
	return &found, nil
}

// CreateItem persists a new item.
func (s *MemoryStore) CreateItem(ctx context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.skuTaken(item.OwnerID, item.SKU, item.ID) {
		return ErrDuplicateSKU
	}
	s.items[item.ID] = *item
	s.nextSeq++
	s.seq[item.ID] = s.nextSeq
	return nil
}

// UpdateItem replaces the mutable fields of an item owned by item.OwnerID.
func (s *MemoryStore) UpdateItem(ctx context.Context, item *model.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.items[item.ID]
	if !ok || existing.OwnerID != item.OwnerID {
		return ErrNotFound
	}
	if s.skuTaken(item.OwnerID, item.SKU, item.ID) {
		return ErrDuplicateSKU
	}

	existing.Name = item.Name
	existing.SKU = item.SKU
	existing.Category = item.Category
	existing.Quantity = item.Quantity
	existing.Price = item.Price
	existing.Description = item.Description
	existing.UpdatedAt = item.UpdatedAt
	s.items[item.ID] = existing
	return nil
}

// DeleteItem removes the item if it belongs to ownerID.
func (s *MemoryStore) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[itemID]
	if !ok || it.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(s.items, itemID)
	delete(s.seq, itemID)
	return nil
}

// skuTaken reports whether another item of the same owner uses the SKU.
// Caller must hold the lock.
func (s *MemoryStore) skuTaken(ownerID, sku, excludeID string) bool {
	for _, it := range s.items {
		if it.OwnerID == ownerID && it.SKU == sku && it.ID != excludeID {
			return true
		}
	}
	return false
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Stats returns counters about the store.
func (s *MemoryStore) Stats(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"accounts": int64(len(s.accounts)),
		"items":    int64(len(s.items)),
	}, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
