package services

import (
	"fmt"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/domain"

	"github.com/golang-jwt/jwt/v4"
)

// TokenService signs and verifies the per-role token pairs. Each role family
// has its own access and refresh secrets, so a token minted for one role can
// never authenticate as another.
type TokenService struct {
	cfg *config.AuthConfig
}

func NewTokenService(cfg *config.AuthConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

type accountClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *TokenService) AccessToken(accountID string, role domain.Role) (string, error) {
	secret, err := s.accessSecret(role)
	if err != nil {
		return "", err
	}
	return s.sign(accountID, role, secret, s.cfg.AccessTTL)
}

func (s *TokenService) RefreshToken(accountID string, role domain.Role) (string, time.Time, error) {
	secret, err := s.refreshSecret(role)
	if err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(s.cfg.RefreshTTL)
	token, err := s.sign(accountID, role, secret, s.cfg.RefreshTTL)
	return token, expiresAt, err
}

func (s *TokenService) VerifyAccess(token string, role domain.Role) (string, error) {
	secret, err := s.accessSecret(role)
	if err != nil {
		return "", err
	}
	return s.verify(token, role, secret)
}

func (s *TokenService) VerifyRefresh(token string, role domain.Role) (string, error) {
	secret, err := s.refreshSecret(role)
	if err != nil {
		return "", err
	}
	return s.verify(token, role, secret)
}

func (s *TokenService) sign(accountID string, role domain.Role, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := accountClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (s *TokenService) verify(tokenString string, role domain.Role, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accountClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*accountClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	if claims.Role != role {
		return "", fmt.Errorf("token role mismatch")
	}
	return claims.Subject, nil
}

func (s *TokenService) accessSecret(role domain.Role) (string, error) {
	switch role {
	case domain.RoleAdmin:
		return s.cfg.AdminAccessSecret, nil
	case domain.RoleSeller:
		return s.cfg.SellerAccessSecret, nil
	case domain.RoleCustomer:
		return s.cfg.CustomerAccessSecret, nil
	}
	return "", fmt.Errorf("unknown role: %s", role)
}

func (s *TokenService) refreshSecret(role domain.Role) (string, error) {
	switch role {
	case domain.RoleAdmin:
		return s.cfg.AdminRefreshSecret, nil
	case domain.RoleSeller:
		return s.cfg.SellerRefreshSecret, nil
	case domain.RoleCustomer:
		return s.cfg.CustomerRefreshSecret, nil
	}
	return "", fmt.Errorf("unknown role: %s", role)
}
