package services

import (
	"context"
	"time"

	"marketplace-backend/internal/domain"
	"marketplace-backend/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Maintenance runs the recurring housekeeping jobs: clearing expired refresh
// tokens and rolling review aggregates into the product rows.
type Maintenance struct {
	cron     *cron.Cron
	accounts []domain.AccountRepository
	reviews  domain.ReviewRepository
	products domain.ProductRepository
	cache    domain.CatalogCache
	log      logger.Logger
}

func NewMaintenance(accounts []domain.AccountRepository, reviews domain.ReviewRepository,
	products domain.ProductRepository, cache domain.CatalogCache, log logger.Logger) *Maintenance {
	return &Maintenance{
		cron:     cron.New(),
		accounts: accounts,
		reviews:  reviews,
		products: products,
		cache:    cache,
		log:      log,
	}
}

func (m *Maintenance) Start(ctx context.Context) error {
	m.log.Info("Starting maintenance jobs")

	if _, err := m.cron.AddFunc("@every 1m", func() {
		m.purgeExpiredTokens(ctx)
	}); err != nil {
		return err
	}

	if _, err := m.cron.AddFunc("@hourly", func() {
		m.rollupRatings(ctx)
	}); err != nil {
		return err
	}

	m.cron.Start()
	return nil
}

func (m *Maintenance) Stop() error {
	m.log.Info("Stopping maintenance jobs")
	m.cron.Stop()
	return nil
}

func (m *Maintenance) purgeExpiredTokens(ctx context.Context) {
	for _, repo := range m.accounts {
		purged, err := repo.PurgeExpiredTokens(ctx, time.Now())
		if err != nil {
			m.log.Error("Failed to purge expired tokens", "error", err)
			continue
		}
		if purged > 0 {
			m.log.Info("Purged expired refresh tokens", "count", purged)
		}
	}
}

// rollupRatings reconciles the denormalized rating columns against the
// review table. Per-review updates keep them current; this job repairs any
// drift.
func (m *Maintenance) rollupRatings(ctx context.Context) {
	aggregates, err := m.reviews.AggregateRatings(ctx)
	if err != nil {
		m.log.Error("Failed to aggregate ratings", "error", err)
		return
	}

	for _, aggregate := range aggregates {
		if err := m.products.UpdateRating(ctx, aggregate.ProductID, aggregate.Average, aggregate.Count); err != nil {
			m.log.Error("Failed to roll up rating", "product_id", aggregate.ProductID, "error", err)
			continue
		}
		if err := m.cache.InvalidateProduct(ctx, aggregate.ProductID); err != nil {
			m.log.Warn("Product cache invalidation failed", "product_id", aggregate.ProductID, "error", err)
		}
	}

	m.log.Info("Rating rollup complete", "products", len(aggregates))
}
