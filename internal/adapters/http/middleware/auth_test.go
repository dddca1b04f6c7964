package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	res "github.com/AlexTheWizardL/nutrisnap-backend/pkg/http"
)

type stubParser struct {
	respToken  *jwt.Token
	respClaims jwt.MapClaims
	respErr    error
}

func (s stubParser) Parse(string) (*jwt.Token, jwt.MapClaims, error) {
	return s.respToken, s.respClaims, s.respErr
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   "user-1",
		"email": "user@example.com",
		"roles": []interface{}{"user", "admin"},
		"exp":   float64(time.Now().Add(time.Minute).Unix()),
	}
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := NewAuthMiddleware(stubParser{})
	handler := mw.Handler(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	_ = handler(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var errResp res.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &errResp)
	if errResp.Error.Code != "unauthorized" {
		t.Fatalf("unexpected error code: %s", errResp.Error.Code)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer bad")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := NewAuthMiddleware(stubParser{respErr: errors.New("parse error")})
	handler := mw.Handler(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	_ = handler(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareSubjectMissing(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := NewAuthMiddleware(stubParser{
		respToken:  &jwt.Token{Valid: true},
		respClaims: jwt.MapClaims{"exp": float64(time.Now().Add(time.Minute).Unix())},
	})
	handler := mw.Handler(func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	_ = handler(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := NewAuthMiddleware(stubParser{respToken: &jwt.Token{Valid: true}, respClaims: validClaims()})
	handler := mw.Handler(func(c echo.Context) error {
		if c.Get("user_id") != "user-1" || c.Get("email") != "user@example.com" {
			t.Fatalf("identity not set on context")
		}
		return c.String(http.StatusOK, "ok")
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("roles", []string{"user", "admin"})
	if err := RequireRole("admin")(next)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("admin rejected: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("roles", []string{"user"})
	_ = RequireRole("admin")(next)(c)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
