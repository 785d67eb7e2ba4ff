package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"marketplace-backend/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
        INSERT INTO categories (id, name, description, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		category.ID, category.Name, category.Description,
		category.CreatedAt, category.UpdatedAt)
	return err
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `SELECT id, name, description, image_key, created_at, updated_at FROM categories WHERE id = ?`
	return scanCategory(r.db.QueryRowContext(ctx, query, id))
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT id, name, description, image_key, created_at, updated_at FROM categories ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, id string, name, description *string) (*domain.Category, error) {
	assignments := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	if name != nil {
		assignments = append(assignments, "name = ?")
		args = append(args, *name)
	}
	if description != nil {
		assignments = append(assignments, "description = ?")
		args = append(args, *description)
	}

	args = append(args, id)
	query := "UPDATE categories SET " + strings.Join(assignments, ", ") + " WHERE id = ?"

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

func (r *CategoryRepository) UpdateImage(ctx context.Context, id, imageKey string) error {
	query := `UPDATE categories SET image_key = ?, updated_at = ? WHERE id = ?`
	var key interface{}
	if imageKey != "" {
		key = imageKey
	}
	_, err := r.db.ExecContext(ctx, query, key, time.Now(), id)
	return err
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	return err
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	var category domain.Category
	var imageKey sql.NullString

	err := row.Scan(&category.ID, &category.Name, &category.Description,
		&imageKey, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		return nil, err
	}

	category.ImageKey = imageKey.String
	return &category, nil
}
