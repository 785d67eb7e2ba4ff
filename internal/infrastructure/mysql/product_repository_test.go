package mysql

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"marketplace-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRow(id, sellerID, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "seller_id", "category_id", "name", "description", "price",
		"quantity", "image_keys", "rating_avg", "rating_count", "created_at", "updated_at",
	}).AddRow(id, sellerID, "cat-1", name, "desc", 9.99, 5, `["img-a","img-b"]`, 4.5, 2, now, now)
}

func TestProductGetByIDDecodesImages(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id = ?").
		WithArgs("prod-1").
		WillReturnRows(productRow("prod-1", "sell-1", "Lamp"))

	product, err := repo.GetByID(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"img-a", "img-b"}, product.ImageKeys)
	assert.Equal(t, 4.5, product.RatingAvg)
}

func TestProductUpdateRejectsForeignSeller(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	name := "Renamed"
	mock.ExpectExec("UPDATE products SET (.+) WHERE id = \\? AND seller_id = ?").
		WithArgs(sqlmock.AnyArg(), name, "prod-1", "other-seller").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.Update(context.Background(), "prod-1", "other-seller",
		&domain.ProductUpdate{Name: &name})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestProductListFiltersByNameAndCategory(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE (.+)LIKE LOWER\\(\\?\\) AND category_id = \\?(.+)LIMIT \\? OFFSET \\?").
		WithArgs("%lamp%", "cat-1", 10, 0).
		WillReturnRows(productRow("prod-1", "sell-1", "Lamp"))

	products, err := repo.List(context.Background(), "lamp", "cat-1", 1)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Lamp", products[0].Name)
}

func TestProductDeleteReturnsDeletedRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewProductRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id = ?").
		WithArgs("prod-1").
		WillReturnRows(productRow("prod-1", "sell-1", "Lamp"))
	mock.ExpectExec("DELETE FROM products WHERE id = ?").
		WithArgs("prod-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	product, err := repo.Delete(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"img-a", "img-b"}, product.ImageKeys)
	assert.NoError(t, mock.ExpectationsWereMet())
}
