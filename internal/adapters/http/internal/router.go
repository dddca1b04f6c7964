package internalhttp

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Register attaches liveness and readiness endpoints outside the API base path.
func Register(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/readyz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})
}
