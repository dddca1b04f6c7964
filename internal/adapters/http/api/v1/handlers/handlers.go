package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AlexTheWizardL/nutrisnap-backend/internal/usecase"
)

// errorStatus maps service sentinels to transport codes. Anything
// unexpected degrades to a generic bad request; details stay in logs.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrEmailExists), errors.Is(err, usecase.ErrProviderConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, usecase.ErrInvalidCredentials), errors.Is(err, usecase.ErrInvalidAuthData):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, usecase.ErrAnalysisUnavailable):
		return http.StatusServiceUnavailable, "analysis_unavailable"
	case errors.Is(err, usecase.ErrAnalysisFailed):
		return http.StatusBadRequest, "analysis_failed"
	default:
		return http.StatusBadRequest, "bad_request"
	}
}

func requestIDFromCtx(c echo.Context) string {
	if reqID := c.Response().Header().Get(echo.HeaderXRequestID); reqID != "" {
		return reqID
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

func userIDFromCtx(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}
