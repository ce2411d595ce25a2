package service

import (
	"context"
	"errors"
	"sync"

	"github.com/fitstore/fitstore-backend/internal/app/model"
	"github.com/fitstore/fitstore-backend/pkg/catalog"
	"github.com/fitstore/fitstore-backend/pkg/logger"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
)

// SortOrder selects the price ordering of a catalog listing.
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "asc"
	SortPriceDesc SortOrder = "desc"
)

// CatalogQuery narrows and orders a catalog listing. Empty fields match all.
type CatalogQuery struct {
	Search   string
	Category string
	Sort     SortOrder
}

type CatalogService interface {
	Refresh(ctx context.Context) error
	List(query CatalogQuery) ([]model.Product, error)
	ProductByID(id string) (*model.Product, error)
	Categories() ([]string, error)
}

type catalogService struct {
	client *catalog.Client

	mu       sync.RWMutex
	products []model.Product
	loaded   bool
}

func NewCatalogService(client *catalog.Client) CatalogService {
	return &catalogService{client: client}
}

// Refresh replaces the cached catalog with a fresh fetch from the feed. On
// failure the previous snapshot, if any, stays in place.
func (s *catalogService) Refresh(ctx context.Context) error {
	logger.Debug("Refreshing catalog", map[string]interface{}{
		"source": s.client.GetConfig().SourceURL,
	})

	products, err := s.client.FetchProducts(ctx)
	if err != nil {
		logger.Error("Failed to refresh catalog", err, map[string]interface{}{
			"source": s.client.GetConfig().SourceURL,
		})
		return err
	}

	s.mu.Lock()
	s.products = products
	s.loaded = true
	s.mu.Unlock()

	logger.Info("Catalog refreshed", map[string]interface{}{
		"count": len(products),
	})
	return nil
}

func (s *catalogService) List(query CatalogQuery) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrCatalogNotLoaded
	}
	return FilterProducts(s.products, query), nil
}

func (s *catalogService) ProductByID(id string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrCatalogNotLoaded
	}
	for _, p := range s.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, ErrProductNotFound
}

// Categories returns the distinct categories in first-seen feed order.
func (s *catalogService) Categories() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, ErrCatalogNotLoaded
	}

	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, p := range s.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	return categories, nil
}
