package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"strings"
	"time"

	"stockroom-api/internal/cache"
	"stockroom-api/internal/model"
	"stockroom-api/internal/repository"
	"stockroom-api/pkg/apierror"
	"stockroom-api/pkg/uid"
)

// DefaultListCacheTTL bounds staleness of cached list responses between
// mutations coming from other instances.
const DefaultListCacheTTL = 30 * time.Second

// InventoryService handles owner-scoped inventory business logic. Every
// operation takes the acting account's id first; callers resolve it via
// AccountService.Verify before reaching this service.
type InventoryService struct {
	items    repository.ItemRepository
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewInventoryService creates a new inventory service. The cache is
// optional; pass nil to disable list caching.
func NewInventoryService(items repository.ItemRepository, c cache.Cache, cacheTTL time.Duration) *InventoryService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultListCacheTTL
	}
	return &InventoryService{
		items:    items,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// listCacheKey is the cache key for an owner's serialized item list.
func listCacheKey(ownerID string) string {
	return "inventory:owner:" + ownerID
}

// List returns all items owned by ownerID in creation order.
func (s *InventoryService) List(ctx context.Context, ownerID string) ([]model.Item, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, listCacheKey(ownerID)); err == nil {
			var items []model.Item
			if json.Unmarshal(data, &items) == nil {
				return items, nil
			}
		}
	}

	items, err := s.items.ListItems(ctx, ownerID)
	if err != nil {
		log.Printf("[InventoryService] list failed: %v", err)
		return nil, apierror.InternalError("")
	}

	if s.cache != nil {
		if data, err := json.Marshal(items); err == nil {
			_ = s.cache.Set(ctx, listCacheKey(ownerID), data, s.cacheTTL)
		}
	}

	return items, nil
}

// Get returns a single item. Missing items and items owned by someone
// else produce the same not-found error.
func (s *InventoryService) Get(ctx context.Context, ownerID, itemID string) (*model.Item, error) {
	item, err := s.items.GetItem(ctx, ownerID, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.NotFound("Item not found")
		}
		log.Printf("[InventoryService] get failed: %v", err)
		return nil, apierror.InternalError("")
	}
	return item, nil
}

// Create validates the fields and persists a new item owned by ownerID.
func (s *InventoryService) Create(ctx context.Context, ownerID string, input model.ItemInput) (*model.Item, error) {
	normalized, fields := validateItemInput(input)
	if len(fields) > 0 {
		return nil, apierror.Validation(fields)
	}

	now := time.Now().UTC()
	item := &model.Item{
		ID:          uid.New(),
		OwnerID:     ownerID,
		Name:        normalized.Name,
		SKU:         normalized.SKU,
		Category:    normalized.Category,
		Quantity:    *normalized.Quantity,
		Price:       *normalized.Price,
		Description: normalized.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.items.CreateItem(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicateSKU) {
			return nil, apierror.Conflict("SKU already in use")
		}
		log.Printf("[InventoryService] create failed: %v", err)
		return nil, apierror.InternalError("")
	}

	s.invalidateList(ctx, ownerID)
	return item, nil
}

// Update revalidates the fields and replaces the item's mutable state.
// Ownership resolution matches Get; SKU collisions with a different item
// of the same owner are conflicts.
func (s *InventoryService) Update(ctx context.Context, ownerID, itemID string, input model.ItemInput) (*model.Item, error) {
	normalized, fields := validateItemInput(input)
	if len(fields) > 0 {
		return nil, apierror.Validation(fields)
	}

	item, err := s.items.GetItem(ctx, ownerID, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.NotFound("Item not found")
		}
		log.Printf("[InventoryService] get failed: %v", err)
		return nil, apierror.InternalError("")
	}

	item.Name = normalized.Name
	item.SKU = normalized.SKU
	item.Category = normalized.Category
	item.Quantity = *normalized.Quantity
	item.Price = *normalized.Price
	item.Description = normalized.Description
	item.UpdatedAt = time.Now().UTC()

	if err := s.items.UpdateItem(ctx, item); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateSKU):
			return nil, apierror.Conflict("SKU already in use")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apierror.NotFound("Item not found")
		default:
			log.Printf("[InventoryService] update failed: %v", err)
			return nil, apierror.InternalError("")
		}
	}

	s.invalidateList(ctx, ownerID)
	return item, nil
}

// Delete hard-deletes the item. A repeated delete yields the same
// not-found error as a nonexistent id.
func (s *InventoryService) Delete(ctx context.Context, ownerID, itemID string) error {
	if err := s.items.DeleteItem(ctx, ownerID, itemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierror.NotFound("Item not found")
		}
		log.Printf("[InventoryService] delete failed: %v", err)
		return apierror.InternalError("")
	}

	s.invalidateList(ctx, ownerID)
	return nil
}

// invalidateList drops the owner's cached list after a mutation.
func (s *InventoryService) invalidateList(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey(ownerID)); err != nil {
		log.Printf("[InventoryService] cache invalidation failed: %v", err)
	}
}

// validateItemInput checks every field and returns the trimmed input plus
// a field→message map covering all violations at once.
func validateItemInput(input model.ItemInput) (model.ItemInput, map[string]string) {
	fields := map[string]string{}

	input.Name = strings.TrimSpace(input.Name)
	input.SKU = strings.TrimSpace(input.SKU)
	input.Category = strings.TrimSpace(input.Category)

	if input.Name == "" {
		fields["name"] = "Name is required"
	}
	if input.SKU == "" {
		fields["sku"] = "SKU is required"
	}
	if input.Category == "" {
		fields["category"] = "Category is required"
	}
	if input.Quantity == nil || *input.Quantity < 0 {
		fields["quantity"] = "Valid quantity is required"
	}
	if input.Price == nil || *input.Price < 0 {
		fields["price"] = "Valid price is required"
	} else {
		rounded := math.Round(*input.Price*100) / 100
		input.Price = &rounded
	}

	return input, fields
}
