package middleware

import (
	"context"
	"errors"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/IAmShivay/motorcarbackedn/internal/apperrors"
	"github.com/IAmShivay/motorcarbackedn/internal/auth"
	"github.com/IAmShivay/motorcarbackedn/internal/model"
	"github.com/IAmShivay/motorcarbackedn/internal/repository"
)

const identityKey = "identity"

// AuthGuard resolves bearer tokens to active user identities and gates
// routes on authentication and role membership.
type AuthGuard struct {
	jwt   *auth.JWTService
	users repository.UserRepository
}

// NewAuthGuard creates an auth guard over the token service and user store.
func NewAuthGuard(jwt *auth.JWTService, users repository.UserRepository) *AuthGuard {
	return &AuthGuard{jwt: jwt, users: users}
}

// Identity returns the user bound to the request, if any.
func Identity(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(identityKey).(*model.User)
	return user, ok
}

// resolveToken performs the full token-to-identity resolution: signature
// verification, subject lookup and active check. It returns an error from
// the taxonomy; callers decide whether that error is fatal.
func (g *AuthGuard) resolveToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := g.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}
	if !user.Active {
		return nil, apperrors.ErrUserInactive
	}
	return user, nil
}

// RequireAuth is the hard gate: requests without a resolvable, active
// identity are rejected with the specific unauthenticated kind.
func (g *AuthGuard) RequireAuth() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: identityKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return g.resolveToken(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			mapped := apperrors.ErrNoToken
			switch {
			case errors.Is(err, apperrors.ErrTokenExpired):
				mapped = apperrors.ErrTokenExpired
			case errors.Is(err, apperrors.ErrTokenInvalid):
				mapped = apperrors.ErrTokenInvalid
			case errors.Is(err, apperrors.ErrTokenMalformed):
				mapped = apperrors.ErrTokenMalformed
			case errors.Is(err, apperrors.ErrUserInactive):
				mapped = apperrors.ErrUserInactive
			case errors.Is(err, apperrors.ErrUnauthenticated):
				mapped = apperrors.ErrUnauthenticated
			}
			he := apperrors.MapErrorToHTTP(mapped)
			return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
		},
	})
}

// OptionalAuth is the soft gate: it runs the same resolution but the caller
// of resolveToken here explicitly discards the error variant, leaving the
// request anonymous. It never fails the request.
func (g *AuthGuard) OptionalAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if token, ok := auth.ExtractBearer(header); ok {
				if user, err := g.resolveToken(c.Request().Context(), token); err == nil {
					c.Set(identityKey, user)
				}
			}
			return next(c)
		}
	}
}

// RequireRoles fails with Forbidden when the bound identity's role is not
// in the allowed set, and with Unauthenticated when no identity is bound.
func (g *AuthGuard) RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := Identity(c)
			if !ok {
				he := apperrors.MapErrorToHTTP(apperrors.ErrUnauthenticated)
				return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
			}
			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}
			he := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
			return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
		}
	}
}
