package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/AlexTheWizardL/nutrisnap-backend/internal/domain"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/usecase"
	res "github.com/AlexTheWizardL/nutrisnap-backend/pkg/http"
)

type mockAuthService struct {
	signupFn        func(in usecase.SignupInput) (*usecase.AuthResult, error)
	loginFn         func(email, password string) (*usecase.AuthResult, error)
	googleLoginFn   func(profile usecase.OAuthProfile) (*usecase.AuthResult, error)
	telegramLoginFn func(initData string) (*usecase.TelegramAuthResult, error)
}

func (m *mockAuthService) Signup(_ context.Context, _ string, in usecase.SignupInput) (*usecase.AuthResult, error) {
	return m.signupFn(in)
}

func (m *mockAuthService) Login(_ context.Context, _ string, email, password string) (*usecase.AuthResult, error) {
	return m.loginFn(email, password)
}

func (m *mockAuthService) GoogleLogin(_ context.Context, _ string, profile usecase.OAuthProfile) (*usecase.AuthResult, error) {
	return m.googleLoginFn(profile)
}

func (m *mockAuthService) TelegramLogin(_ context.Context, _ string, initData string) (*usecase.TelegramAuthResult, error) {
	return m.telegramLoginFn(initData)
}

var _ usecase.AuthService = (*mockAuthService)(nil)

func postJSON(t *testing.T, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSignupSuccess(t *testing.T) {
	svc := &mockAuthService{
		signupFn: func(in usecase.SignupInput) (*usecase.AuthResult, error) {
			if in.Email != "user@example.com" || in.Password != "password123" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &usecase.AuthResult{
				User:        &domain.User{ID: "u1", Email: in.Email},
				AccessToken: "token",
				ExpiresIn:   3600,
			}, nil
		},
	}
	h := NewAuthHandler(svc, nil)
	c, rec := postJSON(t, map[string]string{"email": "user@example.com", "password": "password123"})

	if err := h.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["access_token"] != "token" || resp["expires_in"] != float64(3600) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSignupConflict(t *testing.T) {
	svc := &mockAuthService{
		signupFn: func(usecase.SignupInput) (*usecase.AuthResult, error) {
			return nil, usecase.ErrEmailExists
		},
	}
	h := NewAuthHandler(svc, nil)
	c, rec := postJSON(t, map[string]string{"email": "dup@example.com", "password": "password123"})

	_ = h.Signup(c)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp res.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error.Code != "conflict" {
		t.Fatalf("unexpected code: %s", resp.Error.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := &mockAuthService{
		loginFn: func(string, string) (*usecase.AuthResult, error) {
			return nil, usecase.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(svc, nil)
	c, rec := postJSON(t, map[string]string{"email": "user@example.com", "password": "wrong"})

	_ = h.Login(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp res.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error.Code != "unauthorized" {
		t.Fatalf("unexpected code: %s", resp.Error.Code)
	}
}

func TestTelegramAuthSuccess(t *testing.T) {
	svc := &mockAuthService{
		telegramLoginFn: func(initData string) (*usecase.TelegramAuthResult, error) {
			if initData != "auth_date=1&user=x&hash=y" {
				t.Fatalf("unexpected init data: %s", initData)
			}
			return &usecase.TelegramAuthResult{
				AuthResult: usecase.AuthResult{
					User:        &domain.User{ID: "u1", Email: "tg_42@telegram.user"},
					AccessToken: "token",
					ExpiresIn:   3600,
				},
				TelegramID: 42,
				Username:   "ann",
			}, nil
		},
	}
	h := NewAuthHandler(svc, nil)
	c, rec := postJSON(t, map[string]string{"initData": "auth_date=1&user=x&hash=y"})

	if err := h.TelegramAuth(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["telegram_id"] != float64(42) || resp["username"] != "ann" {
		t.Fatalf("telegram identity missing: %+v", resp)
	}
}

func TestTelegramAuthRequiresInitData(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)
	c, rec := postJSON(t, map[string]string{})

	_ = h.TelegramAuth(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestTelegramAuthRejected(t *testing.T) {
	svc := &mockAuthService{
		telegramLoginFn: func(string) (*usecase.TelegramAuthResult, error) {
			return nil, usecase.ErrInvalidAuthData
		},
	}
	h := NewAuthHandler(svc, nil)
	c, rec := postJSON(t, map[string]string{"initData": "tampered"})

	_ = h.TelegramAuth(c)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGoogleAuthDisabled(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.GoogleAuth(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGoogleCallbackDisabled(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?state=abc&code=xyz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.GoogleCallback(c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
