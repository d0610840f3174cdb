package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// IPAllowed reports whether an admin request from ip may proceed.
type IPAllowed func(ip string) bool

// IPWhitelist rejects admin requests whose client address is not allowed.
func IPWhitelist(allowed IPAllowed) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed(c.RealIP()) {
				return echo.NewHTTPError(http.StatusForbidden, "Access denied: IP address not whitelisted")
			}
			return next(c)
		}
	}
}
