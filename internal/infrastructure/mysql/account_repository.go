package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"marketplace-backend/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

const accountPageSize = 10

// AccountRepository serves the admins, sellers and customers tables, which
// share the same account columns. The table name is fixed at construction.
type AccountRepository struct {
	db    *sql.DB
	table string
	role  domain.Role
}

func NewAdminRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db, table: "admins", role: domain.RoleAdmin}
}

func NewSellerRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db, table: "sellers", role: domain.RoleSeller}
}

func NewCustomerRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db, table: "customers", role: domain.RoleCustomer}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := fmt.Sprintf(`
        INSERT INTO %s (id, name, email, password, country, region, address, phone_number, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, r.table)
	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.Name, account.Email, account.Password,
		account.Country, account.Region, account.Address, account.PhoneNumber,
		account.CreatedAt, account.UpdatedAt)
	return err
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := fmt.Sprintf(`
        SELECT id, name, email, password, avatar_key, country, region, address, phone_number, created_at, updated_at
        FROM %s WHERE id = ?
    `, r.table)
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := fmt.Sprintf(`
        SELECT id, name, email, password, avatar_key, country, region, address, phone_number, created_at, updated_at
        FROM %s WHERE email = ?
    `, r.table)
	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *AccountRepository) Update(ctx context.Context, id string, update *domain.AccountUpdate) error {
	assignments := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	set := func(column string, value *string) {
		if value != nil {
			assignments = append(assignments, column+" = ?")
			args = append(args, *value)
		}
	}
	set("name", update.Name)
	set("email", update.Email)
	set("password", update.Password)
	set("country", update.Country)
	set("region", update.Region)
	set("address", update.Address)
	set("phone_number", update.PhoneNumber)

	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", r.table, strings.Join(assignments, ", "))
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *AccountRepository) UpdateAvatar(ctx context.Context, id, avatarKey string) error {
	query := fmt.Sprintf("UPDATE %s SET avatar_key = ?, updated_at = ? WHERE id = ?", r.table)
	var key interface{}
	if avatarKey != "" {
		key = avatarKey
	}
	_, err := r.db.ExecContext(ctx, query, key, time.Now(), id)
	return err
}

func (r *AccountRepository) SaveRefreshToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	query := fmt.Sprintf("UPDATE %s SET refresh_token = ?, token_expires_at = ? WHERE id = ?", r.table)
	_, err := r.db.ExecContext(ctx, query, token, expiresAt, id)
	return err
}

func (r *AccountRepository) GetByRefreshToken(ctx context.Context, id, token string) (*domain.Account, error) {
	query := fmt.Sprintf(`
        SELECT id, name, email, password, avatar_key, country, region, address, phone_number, created_at, updated_at
        FROM %s WHERE id = ? AND refresh_token = ?
    `, r.table)
	return r.scanAccount(r.db.QueryRowContext(ctx, query, id, token))
}

func (r *AccountRepository) ClearRefreshToken(ctx context.Context, id string) error {
	query := fmt.Sprintf("UPDATE %s SET refresh_token = NULL, token_expires_at = NULL WHERE id = ?", r.table)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *AccountRepository) PurgeExpiredTokens(ctx context.Context, before time.Time) (int64, error) {
	query := fmt.Sprintf(`
        UPDATE %s SET refresh_token = NULL, token_expires_at = NULL
        WHERE token_expires_at IS NOT NULL AND token_expires_at < ?
    `, r.table)
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *AccountRepository) Search(ctx context.Context, name string, page int) ([]*domain.Account, error) {
	if page < 1 {
		page = 1
	}
	query := fmt.Sprintf(`
        SELECT id, name, email, password, avatar_key, country, region, address, phone_number, created_at, updated_at
        FROM %s
        WHERE LOWER(name) LIKE LOWER(?)
        ORDER BY name ASC
        LIMIT ? OFFSET ?
    `, r.table)

	rows, err := r.db.QueryContext(ctx, query,
		"%"+name+"%", accountPageSize, accountPageSize*(page-1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := r.scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table)
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *AccountRepository) scanAccount(row rowScanner) (*domain.Account, error) {
	account, err := r.scanAccountRow(row)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) scanAccountRow(row rowScanner) (*domain.Account, error) {
	var account domain.Account
	var avatarKey, country, region, address, phoneNumber sql.NullString

	err := row.Scan(&account.ID, &account.Name, &account.Email, &account.Password,
		&avatarKey, &country, &region, &address, &phoneNumber,
		&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}

	account.Role = r.role
	account.AvatarKey = avatarKey.String
	account.Country = country.String
	account.Region = region.String
	account.Address = address.String
	account.PhoneNumber = phoneNumber.String
	return &account, nil
}
