package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"marketplace-backend/internal/domain"
	"marketplace-backend/pkg/logger"
	"marketplace-backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrNotFound           = errors.New("not found")
	ErrAdminLimit         = errors.New("the admin team is limited to 5 accounts")
	ErrLastAdmin          = errors.New("the only remaining admin cannot be deleted")
)

const maxAdmins = 5

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type SignUpInput struct {
	Name        string
	Email       string
	Password    string
	Country     string
	Region      string
	Address     string
	PhoneNumber string
}

// AccountService implements the shared account lifecycle. One instance exists
// per role family, bound to that role's table and token secrets.
type AccountService struct {
	repo   domain.AccountRepository
	role   domain.Role
	tokens *TokenService
	images *ImageService
	log    logger.Logger
}

func NewAccountService(repo domain.AccountRepository, role domain.Role,
	tokens *TokenService, images *ImageService, log logger.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		role:   role,
		tokens: tokens,
		images: images,
		log:    log,
	}
}

func (s *AccountService) SignUp(ctx context.Context, input SignUpInput) (*domain.Account, *TokenPair, error) {
	if s.role == domain.RoleAdmin {
		count, err := s.repo.Count(ctx)
		if err != nil {
			return nil, nil, err
		}
		if count >= maxAdmins {
			return nil, nil, ErrAdminLimit
		}
	}

	existing, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	account := &domain.Account{
		ID:          utils.GenerateID(string(s.role)),
		Name:        input.Name,
		Email:       input.Email,
		Password:    string(hash),
		Role:        s.role,
		Country:     input.Country,
		Region:      input.Region,
		Address:     input.Address,
		PhoneNumber: input.PhoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("Account created", "account_id", account.ID, "role", s.role)
	return account, pair, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.Account, *TokenPair, error) {
	account, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, account.ID)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("Account logged in", "account_id", account.ID, "role", s.role)
	return account, pair, nil
}

// Refresh rotates the token pair. The presented refresh token must both
// verify against the role's refresh secret and match the one stored for the
// account, so a token that was already rotated out cannot be replayed.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	accountID, err := s.tokens.VerifyRefresh(refreshToken, s.role)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if _, err := s.repo.GetByRefreshToken(ctx, accountID, refreshToken); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return s.issueTokens(ctx, accountID)
}

func (s *AccountService) Logout(ctx context.Context, accountID string) error {
	return s.repo.ClearRefreshToken(ctx, accountID)
}

func (s *AccountService) Profile(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return account, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, update *domain.AccountUpdate) (*domain.Account, error) {
	if update.Email != nil {
		existing, err := s.repo.GetByEmail(ctx, *update.Email)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		if existing != nil && existing.ID != accountID {
			return nil, ErrEmailTaken
		}
	}

	if update.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hashed := string(hash)
		update.Password = &hashed
	}

	if err := s.repo.Update(ctx, accountID, update); err != nil {
		return nil, err
	}
	return s.Profile(ctx, accountID)
}

// UpdateAvatar stores the resized avatar and removes the previous object once
// the new key is persisted.
func (s *AccountService) UpdateAvatar(ctx context.Context, accountID, filename string, data []byte) (string, error) {
	account, err := s.Profile(ctx, accountID)
	if err != nil {
		return "", err
	}

	key, err := s.images.UploadAvatar(ctx, filename, data)
	if err != nil {
		return "", err
	}

	if err := s.repo.UpdateAvatar(ctx, accountID, key); err != nil {
		return "", err
	}

	if account.AvatarKey != "" {
		if err := s.images.Remove(ctx, account.AvatarKey); err != nil {
			s.log.Warn("Failed to remove old avatar", "key", account.AvatarKey, "error", err)
		}
	}
	return key, nil
}

func (s *AccountService) DeleteAvatar(ctx context.Context, accountID string) error {
	account, err := s.Profile(ctx, accountID)
	if err != nil {
		return err
	}
	if account.AvatarKey == "" {
		return nil
	}

	if err := s.repo.UpdateAvatar(ctx, accountID, ""); err != nil {
		return err
	}
	if err := s.images.Remove(ctx, account.AvatarKey); err != nil {
		s.log.Warn("Failed to remove avatar object", "key", account.AvatarKey, "error", err)
	}
	return nil
}

func (s *AccountService) DeleteAccount(ctx context.Context, accountID string) error {
	account, err := s.Profile(ctx, accountID)
	if err != nil {
		return err
	}

	if s.role == domain.RoleAdmin {
		count, err := s.repo.Count(ctx)
		if err != nil {
			return err
		}
		if count <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.repo.Delete(ctx, accountID); err != nil {
		return err
	}

	if account.AvatarKey != "" {
		if err := s.images.Remove(ctx, account.AvatarKey); err != nil {
			s.log.Warn("Failed to remove avatar object", "key", account.AvatarKey, "error", err)
		}
	}

	s.log.Info("Account deleted", "account_id", accountID, "role", s.role)
	return nil
}

// AvatarURL resolves a stored avatar key to a presigned URL. An empty key
// resolves to an empty URL.
func (s *AccountService) AvatarURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return s.images.URL(ctx, key)
}

func (s *AccountService) Search(ctx context.Context, name string, page int) ([]*domain.Account, error) {
	return s.repo.Search(ctx, name, page)
}

func (s *AccountService) issueTokens(ctx context.Context, accountID string) (*TokenPair, error) {
	access, err := s.tokens.AccessToken(accountID, s.role)
	if err != nil {
		return nil, err
	}
	refresh, expiresAt, err := s.tokens.RefreshToken(accountID, s.role)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveRefreshToken(ctx, accountID, refresh, expiresAt); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
