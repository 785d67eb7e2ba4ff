package mysql

import (
	"context"
	"database/sql"
	"time"

	"marketplace-backend/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
        INSERT INTO reviews (id, product_id, customer_id, rating, comment, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		review.ID, review.ProductID, review.CustomerID,
		review.Rating, review.Comment, review.CreatedAt, review.UpdatedAt)
	return err
}

// GetOwned fetches a review only when the given customer wrote it.
func (r *ReviewRepository) GetOwned(ctx context.Context, id, customerID string) (*domain.Review, error) {
	query := `
        SELECT id, product_id, customer_id, rating, comment, created_at, updated_at
        FROM reviews WHERE id = ? AND customer_id = ?
    `
	return scanReview(r.db.QueryRowContext(ctx, query, id, customerID))
}

func (r *ReviewRepository) Update(ctx context.Context, id string, rating int, comment string) error {
	query := `UPDATE reviews SET rating = ?, comment = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, rating, comment, time.Now(), id)
	return err
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	return err
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error) {
	query := `
        SELECT id, product_id, customer_id, rating, comment, created_at, updated_at
        FROM reviews WHERE product_id = ? ORDER BY created_at DESC
    `
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// AggregateRatings computes the per-product average and count for the rating
// rollup job.
func (r *ReviewRepository) AggregateRatings(ctx context.Context) ([]*domain.RatingAggregate, error) {
	query := `
        SELECT product_id, AVG(rating), COUNT(*)
        FROM reviews
        GROUP BY product_id
    `
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggregates []*domain.RatingAggregate
	for rows.Next() {
		var aggregate domain.RatingAggregate
		if err := rows.Scan(&aggregate.ProductID, &aggregate.Average, &aggregate.Count); err != nil {
			return nil, err
		}
		aggregates = append(aggregates, &aggregate)
	}
	return aggregates, rows.Err()
}

func scanReview(row rowScanner) (*domain.Review, error) {
	var review domain.Review
	err := row.Scan(&review.ID, &review.ProductID, &review.CustomerID,
		&review.Rating, &review.Comment, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &review, nil
}
