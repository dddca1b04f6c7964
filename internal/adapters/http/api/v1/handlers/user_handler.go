package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AlexTheWizardL/nutrisnap-backend/internal/domain"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/usecase"
	res "github.com/AlexTheWizardL/nutrisnap-backend/pkg/http"
)

type UserHandler struct {
	service usecase.UserService
}

func NewUserHandler(s usecase.UserService) *UserHandler { return &UserHandler{service: s} }

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type adminUpdateUserRequest struct {
	FirstName *string           `json:"first_name"`
	LastName  *string           `json:"last_name"`
	Roles     []domain.UserRole `json:"roles"`
	IsActive  *bool             `json:"is_active"`
}

func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := h.service.GetByID(c.Request().Context(), userIDFromCtx(c))
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	req := new(updateProfileRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	user, err := h.service.Update(c.Request().Context(), requestIDFromCtx(c), userIDFromCtx(c), usecase.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, user)
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, users)
}

func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, user)
}

func (h *UserHandler) Update(c echo.Context) error {
	req := new(adminUpdateUserRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	user, err := h.service.Update(c.Request().Context(), requestIDFromCtx(c), c.Param("id"), usecase.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     req.Roles,
		IsActive:  req.IsActive,
	})
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, user)
}

func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), requestIDFromCtx(c), c.Param("id")); err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return c.NoContent(http.StatusNoContent)
}
