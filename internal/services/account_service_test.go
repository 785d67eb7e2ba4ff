package services

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/domain"
	"marketplace-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeAccountRepo struct {
	accounts map[string]*domain.Account
	tokens   map[string]string
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		accounts: make(map[string]*domain.Account),
		tokens:   make(map[string]string),
	}
}

func (f *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	copied := *account
	f.accounts[account.ID] = &copied
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *account
	return &copied, nil
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range f.accounts {
		if strings.EqualFold(account.Email, email) {
			copied := *account
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAccountRepo) Update(_ context.Context, id string, update *domain.AccountUpdate) error {
	account, ok := f.accounts[id]
	if !ok {
		return sql.ErrNoRows
	}
	if update.Name != nil {
		account.Name = *update.Name
	}
	if update.Email != nil {
		account.Email = *update.Email
	}
	if update.Password != nil {
		account.Password = *update.Password
	}
	if update.Country != nil {
		account.Country = *update.Country
	}
	return nil
}

func (f *fakeAccountRepo) UpdateAvatar(_ context.Context, id, avatarKey string) error {
	account, ok := f.accounts[id]
	if !ok {
		return sql.ErrNoRows
	}
	account.AvatarKey = avatarKey
	return nil
}

func (f *fakeAccountRepo) SaveRefreshToken(_ context.Context, id, token string, _ time.Time) error {
	f.tokens[id] = token
	return nil
}

func (f *fakeAccountRepo) GetByRefreshToken(ctx context.Context, id, token string) (*domain.Account, error) {
	if f.tokens[id] != token {
		return nil, sql.ErrNoRows
	}
	return f.GetByID(ctx, id)
}

func (f *fakeAccountRepo) ClearRefreshToken(_ context.Context, id string) error {
	delete(f.tokens, id)
	return nil
}

func (f *fakeAccountRepo) PurgeExpiredTokens(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeAccountRepo) Delete(_ context.Context, id string) error {
	delete(f.accounts, id)
	return nil
}

func (f *fakeAccountRepo) Search(_ context.Context, name string, _ int) ([]*domain.Account, error) {
	var matches []*domain.Account
	for _, account := range f.accounts {
		if strings.Contains(strings.ToLower(account.Name), strings.ToLower(name)) {
			copied := *account
			matches = append(matches, &copied)
		}
	}
	return matches, nil
}

func (f *fakeAccountRepo) Count(_ context.Context) (int, error) {
	return len(f.accounts), nil
}

func newAccountService(repo domain.AccountRepository) *AccountService {
	tokens := NewTokenService(&config.AuthConfig{
		CustomerAccessSecret:  "access",
		CustomerRefreshSecret: "refresh",
		AccessTTL:             15 * time.Minute,
		RefreshTTL:            7 * 24 * time.Hour,
	})
	return NewAccountService(repo, domain.RoleCustomer, tokens, nil, logger.New())
}

func TestSignUpHashesPasswordAndIssuesTokens(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAccountService(repo)

	account, pair, err := svc.SignUp(context.Background(), SignUpInput{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	assert.NotEqual(t, "secret123", account.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(account.Password), []byte("secret123")))
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAccountService(repo)

	_, _, err := svc.SignUp(context.Background(), SignUpInput{Email: "jane@example.com", Password: "x"})
	require.NoError(t, err)

	_, _, err = svc.SignUp(context.Background(), SignUpInput{Email: "jane@example.com", Password: "y"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAccountService(repo)

	_, _, err := svc.SignUp(context.Background(), SignUpInput{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "jane@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAccountService(repo)

	_, pair, err := svc.SignUp(context.Background(), SignUpInput{Email: "jane@example.com", Password: "x"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	// The old refresh token was rotated out and no longer works.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAccountService(repo)

	account, pair, err := svc.SignUp(context.Background(), SignUpInput{Email: "jane@example.com", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), account.ID))

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateProfileRehashesPassword(t *testing.T) {
	repo := newFakeAccountRepo()
	svc := newAccountService(repo)

	account, _, err := svc.SignUp(context.Background(), SignUpInput{Email: "jane@example.com", Password: "old"})
	require.NoError(t, err)

	newPassword := "brand-new"
	updated, err := svc.UpdateProfile(context.Background(), account.ID, &domain.AccountUpdate{Password: &newPassword})
	require.NoError(t, err)

	assert.NotEqual(t, "brand-new", updated.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("brand-new")))
}
