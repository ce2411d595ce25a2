package service

import (
	"context"
	"sync"

	"github.com/fitstore/fitstore-backend/internal/app/model"
	"github.com/fitstore/fitstore-backend/internal/app/repository"
	"github.com/fitstore/fitstore-backend/internal/app/store"
	"github.com/fitstore/fitstore-backend/pkg/logger"
)

// ProductSource resolves product ids against the current catalog.
type ProductSource interface {
	ProductByID(id string) (*model.Product, error)
}

type CartService interface {
	GetCart(ctx context.Context, sessionID string) (model.CartSnapshot, error)
	AddToCart(ctx context.Context, sessionID, productID string, quantity int) (model.CartSnapshot, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (model.CartSnapshot, error)
	RemoveFromCart(ctx context.Context, sessionID, productID string) (model.CartSnapshot, error)
	ClearCart(ctx context.Context, sessionID string) (model.CartSnapshot, error)
}

// cartService keeps one CartStore per session, hydrated lazily from durable
// storage. Mutations run on the session's store, which persists before
// returning.
type cartService struct {
	cartRepo repository.CartRepository
	products ProductSource
	notifier Notifier

	mu     sync.Mutex
	stores map[string]*store.CartStore
}

func NewCartService(cartRepo repository.CartRepository, products ProductSource, notifier Notifier) CartService {
	return &cartService{
		cartRepo: cartRepo,
		products: products,
		notifier: notifier,
		stores:   make(map[string]*store.CartStore),
	}
}

func (s *cartService) storeFor(ctx context.Context, sessionID string) (*store.CartStore, error) {
	s.mu.Lock()
	cartStore, ok := s.stores[sessionID]
	if !ok {
		cartStore = store.NewCartStore(s.cartRepo, sessionID)
		s.stores[sessionID] = cartStore
		s.mu.Unlock()
		if err := cartStore.Load(ctx); err != nil {
			// Drop the unhydrated store so the next access retries the load
			// instead of serving an empty cart over persisted items.
			s.mu.Lock()
			if s.stores[sessionID] == cartStore {
				delete(s.stores, sessionID)
			}
			s.mu.Unlock()
			return nil, err
		}
		return cartStore, nil
	}
	s.mu.Unlock()
	return cartStore, nil
}

func (s *cartService) GetCart(ctx context.Context, sessionID string) (model.CartSnapshot, error) {
	cartStore, err := s.storeFor(ctx, sessionID)
	if err != nil {
		return model.CartSnapshot{}, err
	}
	return cartStore.Snapshot(), nil
}

func (s *cartService) AddToCart(ctx context.Context, sessionID, productID string, quantity int) (model.CartSnapshot, error) {
	logger.Info("Adding item to cart", map[string]interface{}{
		"session_id": sessionID,
		"product_id": productID,
		"quantity":   quantity,
	})

	product, err := s.products.ProductByID(productID)
	if err != nil {
		logger.Warn("Cannot add to cart: product lookup failed", map[string]interface{}{
			"session_id": sessionID,
			"product_id": productID,
			"error":      err.Error(),
		})
		return model.CartSnapshot{}, err
	}

	cartStore, err := s.storeFor(ctx, sessionID)
	if err != nil {
		return model.CartSnapshot{}, err
	}
	if err := cartStore.Add(ctx, *product, quantity); err != nil {
		return model.CartSnapshot{}, err
	}

	if s.notifier != nil {
		s.notifier.Toast(sessionID, "Product added to cart")
	}
	return cartStore.Snapshot(), nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (model.CartSnapshot, error) {
	cartStore, err := s.storeFor(ctx, sessionID)
	if err != nil {
		return model.CartSnapshot{}, err
	}
	if err := cartStore.UpdateQuantity(ctx, productID, quantity); err != nil {
		return model.CartSnapshot{}, err
	}
	return cartStore.Snapshot(), nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, sessionID, productID string) (model.CartSnapshot, error) {
	cartStore, err := s.storeFor(ctx, sessionID)
	if err != nil {
		return model.CartSnapshot{}, err
	}
	if err := cartStore.Remove(ctx, productID); err != nil {
		return model.CartSnapshot{}, err
	}
	return cartStore.Snapshot(), nil
}

func (s *cartService) ClearCart(ctx context.Context, sessionID string) (model.CartSnapshot, error) {
	logger.Info("Clearing cart", map[string]interface{}{
		"session_id": sessionID,
	})

	cartStore, err := s.storeFor(ctx, sessionID)
	if err != nil {
		return model.CartSnapshot{}, err
	}
	if err := cartStore.Clear(ctx); err != nil {
		return model.CartSnapshot{}, err
	}

	if s.notifier != nil {
		s.notifier.Toast(sessionID, "Cart emptied")
	}
	return cartStore.Snapshot(), nil
}
