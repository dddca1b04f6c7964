package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AlexTheWizardL/nutrisnap-backend/internal/usecase"
	res "github.com/AlexTheWizardL/nutrisnap-backend/pkg/http"
)

type FoodAnalysisHandler struct {
	service usecase.FoodAnalysisService
}

func NewFoodAnalysisHandler(s usecase.FoodAnalysisService) *FoodAnalysisHandler {
	return &FoodAnalysisHandler{service: s}
}

type analyzeFoodRequest struct {
	ImageBase64 string `json:"image_base64"`
	Context     string `json:"context"`
}

func (h *FoodAnalysisHandler) Analyze(c echo.Context) error {
	req := new(analyzeFoodRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	if req.ImageBase64 == "" {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "image_base64 is required", requestIDFromCtx(c), nil)
	}
	analysis, err := h.service.Analyze(c.Request().Context(), requestIDFromCtx(c), usecase.FoodAnalysisInput{
		ImageBase64: req.ImageBase64,
		Context:     req.Context,
	})
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, analysis)
}
