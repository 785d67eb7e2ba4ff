package services

import (
	"testing"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenService() *TokenService {
	return NewTokenService(&config.AuthConfig{
		AdminAccessSecret:     "admin-access",
		AdminRefreshSecret:    "admin-refresh",
		SellerAccessSecret:    "seller-access",
		SellerRefreshSecret:   "seller-refresh",
		CustomerAccessSecret:  "customer-access",
		CustomerRefreshSecret: "customer-refresh",
		AccessTTL:             15 * time.Minute,
		RefreshTTL:            7 * 24 * time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTokenService()

	token, err := svc.AccessToken("cust-1", domain.RoleCustomer)
	require.NoError(t, err)

	accountID, err := svc.VerifyAccess(token, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", accountID)
}

func TestAccessTokenRejectedAcrossRoles(t *testing.T) {
	svc := newTokenService()

	token, err := svc.AccessToken("sell-1", domain.RoleSeller)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(token, domain.RoleAdmin)
	assert.Error(t, err, "a seller token must not authenticate as admin")
}

func TestRefreshTokenNotValidAsAccessToken(t *testing.T) {
	svc := newTokenService()

	token, _, err := svc.RefreshToken("cust-1", domain.RoleCustomer)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(token, domain.RoleCustomer)
	assert.Error(t, err)

	accountID, err := svc.VerifyRefresh(token, domain.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, "cust-1", accountID)
}

func TestRefreshTokenExpiryMatchesTTL(t *testing.T) {
	svc := newTokenService()

	_, expiresAt, err := svc.RefreshToken("cust-1", domain.RoleCustomer)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, time.Minute)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewTokenService(&config.AuthConfig{
		CustomerAccessSecret: "customer-access",
		AccessTTL:            -time.Minute,
	})

	token, err := svc.AccessToken("cust-1", domain.RoleCustomer)
	require.NoError(t, err)

	_, err = svc.VerifyAccess(token, domain.RoleCustomer)
	assert.Error(t, err)
}
