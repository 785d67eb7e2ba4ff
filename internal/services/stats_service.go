package services

import (
	"context"

	"marketplace-backend/internal/domain"
)

// StatsService assembles the admin dashboard counts.
type StatsService struct {
	sellers   domain.AccountRepository
	customers domain.AccountRepository
	products  domain.ProductRepository
	reports   domain.ReportRepository
}

func NewStatsService(sellers, customers domain.AccountRepository,
	products domain.ProductRepository, reports domain.ReportRepository) *StatsService {
	return &StatsService{
		sellers:   sellers,
		customers: customers,
		products:  products,
		reports:   reports,
	}
}

func (s *StatsService) Collect(ctx context.Context) (*domain.Statistics, error) {
	stats := &domain.Statistics{}

	var err error
	if stats.Sellers, err = s.sellers.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Customers, err = s.customers.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Products, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Reports, err = s.reports.Count(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}
