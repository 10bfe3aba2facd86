package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anonto42/pigstar/backend/internal/apperrors"
	"github.com/anonto42/pigstar/backend/internal/models"
	"github.com/anonto42/pigstar/backend/internal/services"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	userIDKey = "userID"
	userKey   = "user"
)

// IdentityVerifier validates a bearer token issued by the identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (models.ExternalIdentity, error)
}

// Session resolves the caller from an optional bearer token. Requests without
// a token continue anonymously; an invalid token is rejected.
func Session(verifier IdentityVerifier, resolver *services.IdentityResolver, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Authorization header must be in Bearer format"})
			}

			ctx := c.Request().Context()
			identity, err := verifier.Verify(ctx, tokenParts[1])
			if err != nil {
				log.Debug("token rejected", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Invalid or expired token"})
			}

			user, err := resolver.Resolve(ctx, identity)
			if err != nil {
				log.Error("identity resolution failed", zap.String("external_id", identity.ExternalID), zap.Error(err))
				return c.JSON(apperrors.HTTPStatus(err), echo.Map{
					"success": false,
					"error":   apperrors.PublicMessage(err, "Failed to resolve user"),
				})
			}

			c.Set(userIDKey, user.ID)
			c.Set(userKey, user)
			return next(c)
		}
	}
}

// RequireUser rejects anonymous requests.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if UserID(c) == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "Unauthorized"})
		}
		return next(c)
	}
}

// UserID returns the internal id of the caller, or "" for anonymous requests.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

// CurrentUser returns the resolved caller, or nil for anonymous requests.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userKey).(*models.User)
	return user
}
