package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/umalmyha/insurance-crm/internal/auth"
	"github.com/umalmyha/insurance-crm/internal/model"
)

// Authorize verifies bearer jwt and stores its claims in request context
func Authorize(validator *auth.JwtValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHdr := c.Request().Header.Get("Authorization")
			hdrSplit := strings.Split(authHdr, " ")
			if len(hdrSplit) != 2 || !strings.EqualFold(hdrSplit[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid Authorization header format")
			}

			claims, err := validator.Verify(hdrSplit[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			req := c.Request()
			c.SetRequest(req.WithContext(auth.WithClaims(req.Context(), claims)))
			return next(c)
		}
	}
}

// RequireRole lets request through only if authorized user has one of roles, must run after Authorize
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := auth.ClaimsFromContext(c.Request().Context())
			if claims == nil {
				return echo.ErrUnauthorized
			}

			if !claims.HasRole(roles...) {
				return echo.NewHTTPError(http.StatusForbidden, "operation is not allowed for role "+string(claims.Role))
			}
			return next(c)
		}
	}
}
