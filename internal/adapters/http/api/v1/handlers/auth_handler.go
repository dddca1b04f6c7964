package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/AlexTheWizardL/nutrisnap-backend/internal/domain"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/oauth"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/usecase"
	res "github.com/AlexTheWizardL/nutrisnap-backend/pkg/http"
)

const oauthStateCookie = "oauth_state"

type AuthHandler struct {
	service usecase.AuthService
	google  *oauth.GoogleProvider
}

// NewAuthHandler builds the auth endpoints. google is nil when the
// provider is disabled; its routes then answer 404.
func NewAuthHandler(s usecase.AuthService, google *oauth.GoogleProvider) *AuthHandler {
	return &AuthHandler{service: s, google: google}
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type telegramAuthRequest struct {
	InitData string `json:"initData"`
}

type authResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *domain.User `json:"user"`
}

type telegramAuthResponse struct {
	authResponse
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username,omitempty"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	req := new(signupRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	result, err := h.service.Signup(c.Request().Context(), requestIDFromCtx(c), usecase.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.Raw(c, http.StatusCreated, authResponse{AccessToken: result.AccessToken, ExpiresIn: result.ExpiresIn, User: result.User})
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := new(loginRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	result, err := h.service.Login(c.Request().Context(), requestIDFromCtx(c), req.Email, req.Password)
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.Raw(c, http.StatusOK, authResponse{AccessToken: result.AccessToken, ExpiresIn: result.ExpiresIn, User: result.User})
}

// GoogleAuth starts the OAuth flow: it pins a state value in a short
// lived cookie and redirects to Google's consent screen.
func (h *AuthHandler) GoogleAuth(c echo.Context) error {
	if h.google == nil {
		return res.ErrorJSON(c, http.StatusNotFound, "not_found", "google login is not enabled", requestIDFromCtx(c), nil)
	}
	state := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	if h.google == nil {
		return res.ErrorJSON(c, http.StatusNotFound, "not_found", "google login is not enabled", requestIDFromCtx(c), nil)
	}
	cookie, err := c.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != c.QueryParam("state") {
		return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "oauth state mismatch", requestIDFromCtx(c), nil)
	}
	code := c.QueryParam("code")
	if code == "" {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "missing authorization code", requestIDFromCtx(c), nil)
	}

	profile, err := h.google.Exchange(c.Request().Context(), code)
	if err != nil {
		return res.ErrorJSON(c, http.StatusUnauthorized, "unauthorized", "google login failed", requestIDFromCtx(c), nil)
	}

	result, err := h.service.GoogleLogin(c.Request().Context(), requestIDFromCtx(c), *profile)
	if err != nil {
		status, errCode := errorStatus(err)
		return res.ErrorJSON(c, status, errCode, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.Raw(c, http.StatusOK, authResponse{AccessToken: result.AccessToken, ExpiresIn: result.ExpiresIn, User: result.User})
}

func (h *AuthHandler) TelegramAuth(c echo.Context) error {
	req := new(telegramAuthRequest)
	if err := c.Bind(req); err != nil || req.InitData == "" {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	result, err := h.service.TelegramLogin(c.Request().Context(), requestIDFromCtx(c), req.InitData)
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.Raw(c, http.StatusOK, telegramAuthResponse{
		authResponse: authResponse{AccessToken: result.AccessToken, ExpiresIn: result.ExpiresIn, User: result.User},
		TelegramID:   result.TelegramID,
		Username:     result.Username,
	})
}
