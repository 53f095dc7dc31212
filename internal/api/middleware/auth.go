package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
)

const identityKey = "identity"

// Auth validates the bearer token and injects the caller identity into context.
func Auth(verifier ports.IdentityVerifier) echo.MiddlewareFunc {
	return authenticate(verifier, false)
}

// AuthQueryOrHeader is Auth for WebSocket upgrades: browsers cannot set
// headers on the handshake, so a ?token= query parameter is accepted first.
func AuthQueryOrHeader(verifier ports.IdentityVerifier) echo.MiddlewareFunc {
	return authenticate(verifier, true)
}

func authenticate(verifier ports.IdentityVerifier, allowQuery bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			if allowQuery {
				token = c.QueryParam("token")
			}
			if token == "" {
				authHeader := c.Request().Header.Get("Authorization")
				if authHeader == "" {
					return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
				}

				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
				}
				token = parts[1]
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity injected by Auth.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

// WithIdentity stores identity on c. Used by tests and internal callers.
func WithIdentity(c echo.Context, identity domain.Identity) {
	c.Set(identityKey, identity)
}
