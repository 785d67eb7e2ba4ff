package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/domain"
	"marketplace-backend/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() *services.TokenService {
	return services.NewTokenService(&config.AuthConfig{
		AdminAccessSecret:    "admin-access",
		CustomerAccessSecret: "customer-access",
		AccessTTL:            15 * time.Minute,
		RefreshTTL:           24 * time.Hour,
	})
}

func performRequest(t *testing.T, tokens *services.TokenService, role domain.Role, authHeader string) (*httptest.ResponseRecorder, string) {
	t.Helper()

	e := echo.New()
	var seenAccountID string
	handler := RequireRole(tokens, role)(func(c echo.Context) error {
		seenAccountID = AccountID(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()

	err := handler(e.NewContext(req, rec))
	require.NoError(t, err)
	return rec, seenAccountID
}

func TestRequireRoleAcceptsValidToken(t *testing.T) {
	tokens := newAuthFixture()

	token, err := tokens.AccessToken("cust-1", domain.RoleCustomer)
	require.NoError(t, err)

	rec, accountID := performRequest(t, tokens, domain.RoleCustomer, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cust-1", accountID)
}

func TestRequireRoleRejectsMissingHeader(t *testing.T) {
	tokens := newAuthFixture()

	rec, _ := performRequest(t, tokens, domain.RoleCustomer, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Please authenticate."}`, rec.Body.String())
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	tokens := newAuthFixture()

	token, err := tokens.AccessToken("cust-1", domain.RoleCustomer)
	require.NoError(t, err)

	rec, _ := performRequest(t, tokens, domain.RoleAdmin, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleRejectsGarbageToken(t *testing.T) {
	tokens := newAuthFixture()

	rec, _ := performRequest(t, tokens, domain.RoleCustomer, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
