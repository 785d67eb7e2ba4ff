package middleware

import (
	"net/http"
	"strings"

	"marketplace-backend/internal/domain"
	"marketplace-backend/internal/services"

	"github.com/labstack/echo/v4"
)

const AccountIDKey = "accountID"

// RequireRole authenticates the request against the given role's access
// secret and stores the account id on the context.
func RequireRole(tokens *services.TokenService, role domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Please authenticate."})
			}

			accountID, err := tokens.VerifyAccess(strings.TrimPrefix(header, "Bearer "), role)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Please authenticate."})
			}

			c.Set(AccountIDKey, accountID)
			return next(c)
		}
	}
}

// AccountID reads the authenticated account id set by RequireRole.
func AccountID(c echo.Context) string {
	id, _ := c.Get(AccountIDKey).(string)
	return id
}
