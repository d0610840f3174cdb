package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carjai/marketplace-client/internal/api/middleware"
)

// ctxClaims extracts the session claims injected by the session middleware.
// A missing value means the route was registered without it; reject with 401.
func ctxClaims(c echo.Context) (*middleware.Claims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(*middleware.Claims)
	if !ok || claims == nil || claims.SubjectID() == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	return claims, nil
}
