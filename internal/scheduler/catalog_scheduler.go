package scheduler

import (
	"context"
	"time"

	"github.com/fitstore/fitstore-backend/internal/app/service"
	"github.com/fitstore/fitstore-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CatalogScheduler periodically re-fetches the product feed so catalog data
// stays close to the source without restarting the server.
type CatalogScheduler struct {
	cron           *cron.Cron
	catalogService service.CatalogService
	spec           string
}

func NewCatalogScheduler(catalogService service.CatalogService, spec string) *CatalogScheduler {
	return &CatalogScheduler{
		cron:           cron.New(),
		catalogService: catalogService,
		spec:           spec,
	}
}

func (s *CatalogScheduler) Start() error {
	if s.spec == "" {
		logger.Info("Catalog refresh scheduler disabled", nil)
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.catalogService.Refresh(ctx); err != nil {
			logger.Error("Scheduled catalog refresh failed", err, nil)
			return
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for catalog refresh", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Catalog refresh scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

func (s *CatalogScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Catalog refresh scheduler stopped", nil)
}
