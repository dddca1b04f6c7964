package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AlexTheWizardL/nutrisnap-backend/internal/tokenverify"
	res "github.com/AlexTheWizardL/nutrisnap-backend/pkg/http"
)

type AuthMiddleware struct {
	parser tokenverify.Parser
}

func NewAuthMiddleware(parser tokenverify.Parser) *AuthMiddleware {
	return &AuthMiddleware{parser: parser}
}

// Handler guards a route group with bearer-token auth and stores the
// caller's identity on the echo context.
func (m *AuthMiddleware) Handler(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authz := c.Request().Header.Get(echo.HeaderAuthorization)
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "missing token", requestIDFromCtx(c), nil)
		}
		result, err := tokenverify.Verify(m.parser, parts[1], time.Now)
		if err != nil {
			return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "invalid token", requestIDFromCtx(c), nil)
		}
		c.Set("user_id", result.UserID)
		c.Set("email", result.Email)
		c.Set("roles", result.Roles)
		return next(c)
	}
}

// RequireRole rejects callers whose token does not carry the role.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, _ := c.Get("roles").([]string)
			for _, r := range roles {
				if r == role {
					return next(c)
				}
			}
			return res.ErrorJSON(c, http.StatusForbidden, "forbidden", "insufficient role", requestIDFromCtx(c), nil)
		}
	}
}

func requestIDFromCtx(c echo.Context) string {
	if reqID := c.Response().Header().Get(echo.HeaderXRequestID); reqID != "" {
		return reqID
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
