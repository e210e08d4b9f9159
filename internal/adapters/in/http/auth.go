package http

import (
	"fmt"
	"net/http"
	"strings"

	"orders/internal/core/domain/model/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// principalKey is the echo context key the auth middleware stores the
// verified principal under.
const principalKey = "principal"

// tokenClaims are the claims the identity service puts into its tokens.
// Only id and role matter here; name and email ride along for logging.
type tokenClaims struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Correo string `json:"correo"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuth verifies HS256 bearer tokens and stores the resulting principal
// in the request context. Tokens are verified, never issued, here.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
			}

			claims := &tokenClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				if _, isHMAC := t.Method.(*jwt.SigningMethodHMAC); !isHMAC {
					return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
				}
				return secret, nil
			})
			if err != nil || !parsed.Valid {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
			}

			principal, err := auth.NewPrincipal(claims.ID, claims.Role)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// principalFrom extracts the principal the middleware stored. Routes are
// only registered behind JWTAuth, so a missing principal is a programming
// error surfaced as 401 rather than a panic.
func principalFrom(c echo.Context) (auth.Principal, bool) {
	principal, ok := c.Get(principalKey).(auth.Principal)
	return principal, ok
}
