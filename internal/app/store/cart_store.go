package store

import (
	"context"
	"errors"
	"sync"

	"github.com/fitstore/fitstore-backend/internal/app/model"
	"github.com/fitstore/fitstore-backend/internal/app/repository"
	"github.com/fitstore/fitstore-backend/pkg/logger"
)

var (
	ErrOutOfStock = errors.New("product out of stock")
)

// CartStore owns the line items of one session's cart. It enforces the
// quantity invariants (1 <= quantity <= stock, one item per product id),
// keeps totals derived, and persists the full serialized state before any
// mutating call returns. Memory is only updated after a successful save, so
// a failed write leaves the cart in its prior state.
type CartStore struct {
	repo      repository.CartRepository
	sessionID string

	mu      sync.Mutex
	items   []model.CartItem
	version int64
}

func NewCartStore(repo repository.CartRepository, sessionID string) *CartStore {
	return &CartStore{
		repo:      repo,
		sessionID: sessionID,
	}
}

// Load hydrates the cart from durable storage. Corrupt payloads were already
// discarded by the repository, so this never fails on bad data.
func (s *CartStore) Load(ctx context.Context) error {
	items, version, err := s.repo.LoadCart(ctx, s.sessionID)
	if err != nil {
		logger.Error("Failed to load cart", err, map[string]interface{}{
			"session_id": s.sessionID,
		})
		return err
	}

	s.mu.Lock()
	s.items = items
	s.version = version
	s.mu.Unlock()

	logger.Debug("Cart hydrated", map[string]interface{}{
		"session_id": s.sessionID,
		"count":      len(items),
	})
	return nil
}

// Add merges the quantity into an existing line item for the same product,
// saturating at the product's stock, or inserts a new item clamped to stock.
func (s *CartStore) Add(ctx context.Context, product model.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if product.Stock < 1 {
		logger.Warn("Cannot add to cart: product out of stock", map[string]interface{}{
			"session_id": s.sessionID,
			"product_id": product.ID,
		})
		return ErrOutOfStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyItems()
	merged := false
	for i := range next {
		if next[i].Product.ID == product.ID {
			next[i].Quantity = clamp(next[i].Quantity+quantity, 1, next[i].Product.Stock)
			merged = true
			break
		}
	}
	if !merged {
		next = append(next, model.CartItem{
			Product:  product,
			Quantity: clamp(quantity, 1, product.Stock),
		})
	}

	return s.persistLocked(ctx, next)
}

// Remove deletes the matching item. Removing an absent product id is a no-op
// on the item list but still persists, keeping the call idempotent.
func (s *CartStore) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.CartItem, 0, len(s.items))
	for _, item := range s.items {
		if item.Product.ID != productID {
			next = append(next, item)
		}
	}
	return s.persistLocked(ctx, next)
}

// UpdateQuantity sets the quantity of an existing item, clamped to
// [1, stock]. Unknown product ids are ignored without error.
func (s *CartStore) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyItems()
	found := false
	for i := range next {
		if next[i].Product.ID == productID {
			next[i].Quantity = clamp(quantity, 1, next[i].Product.Stock)
			found = true
			break
		}
	}
	if !found {
		logger.Debug("Quantity update for product not in cart ignored", map[string]interface{}{
			"session_id": s.sessionID,
			"product_id": productID,
		})
		return nil
	}

	return s.persistLocked(ctx, next)
}

// Clear empties the cart and persists the empty state.
func (s *CartStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx, []model.CartItem{})
}

// Snapshot returns a read-only copy of the cart with derived aggregates,
// recomputed on every call.
func (s *CartStore) Snapshot() model.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := model.CartSnapshot{
		Items: s.copyItems(),
	}
	for _, item := range s.items {
		snapshot.TotalItems += item.Quantity
		snapshot.TotalPrice += item.Subtotal()
	}
	return snapshot
}

// TotalItems is the sum of quantities over current items.
func (s *CartStore) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of subtotals over current items.
func (s *CartStore) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

// IsEmpty reports whether the cart holds no items.
func (s *CartStore) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// persistLocked writes the candidate item list and commits it to memory only
// on success. Callers must hold s.mu.
func (s *CartStore) persistLocked(ctx context.Context, next []model.CartItem) error {
	version, err := s.repo.SaveCart(ctx, s.sessionID, next, s.version)
	if err != nil {
		logger.Error("Failed to persist cart", err, map[string]interface{}{
			"session_id": s.sessionID,
		})
		return err
	}
	s.items = next
	s.version = version
	return nil
}

func (s *CartStore) copyItems() []model.CartItem {
	items := make([]model.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
