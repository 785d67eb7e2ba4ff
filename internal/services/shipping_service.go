package services

import (
	"context"
	"database/sql"
	"errors"

	"marketplace-backend/internal/domain"
)

var ErrRateMissing = errors.New("every shipping country needs a rate")

// ShippingService manages where a seller ships and at what flat rate.
type ShippingService struct {
	info domain.SellerInfoRepository
}

func NewShippingService(info domain.SellerInfoRepository) *ShippingService {
	return &ShippingService{info: info}
}

func (s *ShippingService) Get(ctx context.Context, sellerID string) ([]string, map[string]float64, error) {
	countries, rates, err := s.info.GetShipping(ctx, sellerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	return countries, rates, nil
}

func (s *ShippingService) Update(ctx context.Context, sellerID string, countries []string, rates map[string]float64) error {
	for _, country := range countries {
		if _, ok := rates[country]; !ok {
			return ErrRateMissing
		}
	}
	return s.info.UpdateShipping(ctx, sellerID, countries, rates)
}
