package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/courier-tracking/internal/api/middleware"
	"github.com/99minutos/courier-tracking/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fails fast before any service call when it is missing or incomplete.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.ID == "" || id.Role == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// ctxCourier is ctxIdentity restricted to courier identities.
func ctxCourier(c echo.Context) (domain.Identity, error) {
	id, err := ctxIdentity(c)
	if err != nil {
		return id, err
	}
	if id.Role != domain.RoleCourier {
		return domain.Identity{}, echo.NewHTTPError(http.StatusForbidden, "courier role required")
	}
	return id, nil
}
