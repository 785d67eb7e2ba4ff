package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplace-backend/internal/domain"
	"marketplace-backend/pkg/logger"
	"marketplace-backend/pkg/utils"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// ReviewService lets customers rate products. The product's stored rating is
// recomputed after every change so reads never aggregate on the fly.
type ReviewService struct {
	reviews  domain.ReviewRepository
	products domain.ProductRepository
	cache    domain.CatalogCache
	log      logger.Logger
}

func NewReviewService(reviews domain.ReviewRepository, products domain.ProductRepository,
	cache domain.CatalogCache, log logger.Logger) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
		cache:    cache,
		log:      log,
	}
}

func (s *ReviewService) Create(ctx context.Context, productID, customerID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now()
	review := &domain.Review{
		ID:         utils.GenerateID("rev"),
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     rating,
		Comment:    comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.recomputeRating(ctx, productID)
	return review, nil
}

func (s *ReviewService) Update(ctx context.Context, id, customerID string, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	review, err := s.reviews.GetOwned(ctx, id, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.reviews.Update(ctx, id, rating, comment); err != nil {
		return nil, err
	}
	review.Rating = rating
	review.Comment = comment

	s.recomputeRating(ctx, review.ProductID)
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, id, customerID string) error {
	review, err := s.reviews.GetOwned(ctx, id, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}

	s.recomputeRating(ctx, review.ProductID)
	return nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error) {
	return s.reviews.ListByProduct(ctx, productID)
}

func (s *ReviewService) recomputeRating(ctx context.Context, productID string) {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		s.log.Error("Failed to list reviews for rating", "product_id", productID, "error", err)
		return
	}

	avg := 0.0
	if len(reviews) > 0 {
		sum := 0
		for _, review := range reviews {
			sum += review.Rating
		}
		avg = float64(sum) / float64(len(reviews))
	}

	if err := s.products.UpdateRating(ctx, productID, avg, len(reviews)); err != nil {
		s.log.Error("Failed to update product rating", "product_id", productID, "error", err)
		return
	}

	if err := s.cache.InvalidateProduct(ctx, productID); err != nil {
		s.log.Warn("Product cache invalidation failed", "product_id", productID, "error", err)
	}
}
