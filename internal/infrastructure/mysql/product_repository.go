package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"marketplace-backend/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

const productPageSize = 10
const quickSearchLimit = 5

const productColumns = `id, seller_id, category_id, name, description, price, quantity, image_keys, rating_avg, rating_count, created_at, updated_at`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	imageKeys, err := json.Marshal(product.ImageKeys)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO products (id, seller_id, category_id, name, description, price, quantity, image_keys, rating_avg, rating_count, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = r.db.ExecContext(ctx, query,
		product.ID, product.SellerID, product.CategoryID, product.Name,
		product.Description, product.Price, product.Quantity, string(imageKeys),
		product.RatingAvg, product.RatingCount, product.CreatedAt, product.UpdatedAt)
	return err
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	return scanProduct(r.db.QueryRowContext(ctx, query, id))
}

// GetOwned fetches a product only when it belongs to the given seller. A
// product owned by someone else scans as sql.ErrNoRows.
func (r *ProductRepository) GetOwned(ctx context.Context, id, sellerID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ? AND seller_id = ?`
	return scanProduct(r.db.QueryRowContext(ctx, query, id, sellerID))
}

func (r *ProductRepository) Update(ctx context.Context, id, sellerID string, update *domain.ProductUpdate) (*domain.Product, error) {
	assignments := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	if update.Name != nil {
		assignments = append(assignments, "name = ?")
		args = append(args, *update.Name)
	}
	if update.Description != nil {
		assignments = append(assignments, "description = ?")
		args = append(args, *update.Description)
	}
	if update.Price != nil {
		assignments = append(assignments, "price = ?")
		args = append(args, *update.Price)
	}
	if update.Quantity != nil {
		assignments = append(assignments, "quantity = ?")
		args = append(args, *update.Quantity)
	}
	if update.CategoryID != nil {
		assignments = append(assignments, "category_id = ?")
		args = append(args, *update.CategoryID)
	}

	args = append(args, id, sellerID)
	query := "UPDATE products SET " + strings.Join(assignments, ", ") + " WHERE id = ? AND seller_id = ?"

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, sql.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) UpdateImages(ctx context.Context, id string, imageKeys []string) error {
	encoded, err := json.Marshal(imageKeys)
	if err != nil {
		return err
	}
	query := `UPDATE products SET image_keys = ?, updated_at = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query, string(encoded), time.Now(), id)
	return err
}

func (r *ProductRepository) UpdateRating(ctx context.Context, id string, avg float64, count int) error {
	query := `UPDATE products SET rating_avg = ?, rating_count = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, avg, count, id)
	return err
}

// Delete returns the deleted product so the caller can clean up its stored
// images afterwards.
func (r *ProductRepository) Delete(ctx context.Context, id string) (*domain.Product, error) {
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) List(ctx context.Context, name, categoryID string, page int) ([]*domain.Product, error) {
	return r.list(ctx, "", name, categoryID, page)
}

func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID, name, categoryID string, page int) ([]*domain.Product, error) {
	return r.list(ctx, sellerID, name, categoryID, page)
}

func (r *ProductRepository) list(ctx context.Context, sellerID, name, categoryID string, page int) ([]*domain.Product, error) {
	if page < 1 {
		page = 1
	}

	conditions := []string{"1 = 1"}
	args := []interface{}{}
	if sellerID != "" {
		conditions = append(conditions, "seller_id = ?")
		args = append(args, sellerID)
	}
	if name != "" {
		conditions = append(conditions, "LOWER(name) LIKE LOWER(?)")
		args = append(args, "%"+name+"%")
	}
	if categoryID != "" {
		conditions = append(conditions, "category_id = ?")
		args = append(args, categoryID)
	}
	args = append(args, productPageSize, productPageSize*(page-1))

	query := `SELECT ` + productColumns + ` FROM products WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

// QuickSearch backs the storefront search box suggestions.
func (r *ProductRepository) QuickSearch(ctx context.Context, name string) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
        WHERE LOWER(name) LIKE LOWER(?) ORDER BY name ASC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, "%"+name+"%", quickSearchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

func collectProducts(rows *sql.Rows) ([]*domain.Product, error) {
	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var product domain.Product
	var imageKeys sql.NullString

	err := row.Scan(&product.ID, &product.SellerID, &product.CategoryID,
		&product.Name, &product.Description, &product.Price, &product.Quantity,
		&imageKeys, &product.RatingAvg, &product.RatingCount,
		&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	product.ImageKeys = []string{}
	if imageKeys.Valid && imageKeys.String != "" {
		if err := json.Unmarshal([]byte(imageKeys.String), &product.ImageKeys); err != nil {
			return nil, err
		}
	}
	return &product, nil
}
