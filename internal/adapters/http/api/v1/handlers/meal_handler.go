package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/AlexTheWizardL/nutrisnap-backend/internal/domain"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/usecase"
	res "github.com/AlexTheWizardL/nutrisnap-backend/pkg/http"
)

type MealHandler struct {
	service usecase.MealService
}

func NewMealHandler(s usecase.MealService) *MealHandler { return &MealHandler{service: s} }

type createMealRequest struct {
	MealType     domain.MealType   `json:"meal_type"`
	FoodName     string            `json:"food_name"`
	Description  string            `json:"description"`
	ImageURL     string            `json:"image_url"`
	Calories     float64           `json:"calories"`
	Protein      float64           `json:"protein"`
	Carbs        float64           `json:"carbs"`
	Fat          float64           `json:"fat"`
	Fiber        float64           `json:"fiber"`
	Sugar        float64           `json:"sugar"`
	Sodium       float64           `json:"sodium"`
	ServingSize  float64           `json:"serving_size"`
	ServingUnit  string            `json:"serving_unit"`
	AIConfidence *float64          `json:"ai_confidence"`
	FoodItems    []domain.FoodItem `json:"food_items"`
	LoggedAt     *time.Time        `json:"logged_at"`
}

func (h *MealHandler) Create(c echo.Context) error {
	req := new(createMealRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	if req.FoodName == "" || req.MealType == "" {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "meal_type and food_name are required", requestIDFromCtx(c), nil)
	}
	meal, err := h.service.Create(c.Request().Context(), requestIDFromCtx(c), userIDFromCtx(c), usecase.CreateMealInput{
		MealType:     req.MealType,
		FoodName:     req.FoodName,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		Calories:     req.Calories,
		Protein:      req.Protein,
		Carbs:        req.Carbs,
		Fat:          req.Fat,
		Fiber:        req.Fiber,
		Sugar:        req.Sugar,
		Sodium:       req.Sodium,
		ServingSize:  req.ServingSize,
		ServingUnit:  req.ServingUnit,
		AIConfidence: req.AIConfidence,
		FoodItems:    req.FoodItems,
		LoggedAt:     req.LoggedAt,
	})
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusCreated, meal)
}

func (h *MealHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	meals, err := h.service.List(c.Request().Context(), userIDFromCtx(c), limit, offset)
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, meals)
}

func (h *MealHandler) Get(c echo.Context) error {
	meal, err := h.service.Get(c.Request().Context(), userIDFromCtx(c), c.Param("id"))
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, meal)
}

func (h *MealHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), requestIDFromCtx(c), userIDFromCtx(c), c.Param("id")); err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MealHandler) DailySummary(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	summary, err := h.service.DailySummary(c.Request().Context(), userIDFromCtx(c), date)
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, summary)
}

func (h *MealHandler) WeeklySummary(c echo.Context) error {
	start := c.QueryParam("start")
	if start == "" {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "start date is required", requestIDFromCtx(c), nil)
	}
	summaries, err := h.service.WeeklySummary(c.Request().Context(), userIDFromCtx(c), start)
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, summaries)
}

func (h *MealHandler) Stats(c echo.Context) error {
	days, _ := strconv.Atoi(c.QueryParam("days"))
	stats, err := h.service.Stats(c.Request().Context(), userIDFromCtx(c), days)
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, stats)
}
