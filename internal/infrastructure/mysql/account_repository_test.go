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

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func accountRows(id, name, email string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password", "avatar_key",
		"country", "region", "address", "phone_number", "created_at", "updated_at",
	}).AddRow(id, name, email, "hashed", nil, "DE", "Berlin", "Somestr. 1", "123", now, now)
}

func TestAccountGetByEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM customers WHERE email = ?").
		WithArgs("jane@example.com").
		WillReturnRows(accountRows("cust-1", "Jane", "jane@example.com"))

	account, err := repo.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cust-1", account.ID)
	assert.Equal(t, domain.RoleCustomer, account.Role)
	assert.Empty(t, account.AvatarKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAdminRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM admins WHERE id = ?").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAccountUpdateOnlySetFields(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSellerRepository(db)

	name := "New Name"
	country := "FR"
	mock.ExpectExec("UPDATE sellers SET updated_at = \\?, name = \\?, country = \\? WHERE id = ?").
		WithArgs(sqlmock.AnyArg(), name, country, "sell-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), "sell-1", &domain.AccountUpdate{
		Name:    &name,
		Country: &country,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountSearchPaginates(t *testing.T) {
	db, mock := newMock(t)
	repo := NewSellerRepository(db)

	rows := accountRows("sell-1", "Anna", "anna@example.com")
	mock.ExpectQuery("SELECT (.+) FROM sellers(.+)LIKE LOWER\\(\\?\\)(.+)LIMIT \\? OFFSET \\?").
		WithArgs("%an%", 10, 10).
		WillReturnRows(rows)

	accounts, err := repo.Search(context.Background(), "an", 2)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Anna", accounts[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountPurgeExpiredTokens(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCustomerRepository(db)

	mock.ExpectExec("UPDATE customers SET refresh_token = NULL(.+)token_expires_at < ?").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	purged, err := repo.PurgeExpiredTokens(context.Background(), time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 3, purged)
}
