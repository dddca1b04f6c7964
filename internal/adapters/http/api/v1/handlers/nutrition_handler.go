package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AlexTheWizardL/nutrisnap-backend/internal/domain"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/usecase"
	res "github.com/AlexTheWizardL/nutrisnap-backend/pkg/http"
)

type NutritionHandler struct {
	service usecase.NutritionService
}

func NewNutritionHandler(s usecase.NutritionService) *NutritionHandler {
	return &NutritionHandler{service: s}
}

type goalRequest struct {
	GoalType      domain.NutritionGoalType `json:"goal_type"`
	DailyCalories int                      `json:"daily_calories"`
	DailyProtein  int                      `json:"daily_protein"`
	DailyCarbs    int                      `json:"daily_carbs"`
	DailyFat      int                      `json:"daily_fat"`
	DailyFiber    int                      `json:"daily_fiber"`
	DailyWaterML  int                      `json:"daily_water_ml"`

	Weight        *float64 `json:"weight"`
	Height        *int     `json:"height"`
	Age           *int     `json:"age"`
	Gender        string   `json:"gender"`
	ActivityLevel string   `json:"activity_level"`

	DietaryRestrictions []string `json:"dietary_restrictions"`
	Allergies           []string `json:"allergies"`
}

func (h *NutritionHandler) GetGoal(c echo.Context) error {
	goal, err := h.service.Goal(c.Request().Context(), userIDFromCtx(c))
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, goal)
}

func (h *NutritionHandler) UpsertGoal(c echo.Context) error {
	req := new(goalRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	goal, err := h.service.UpsertGoal(c.Request().Context(), requestIDFromCtx(c), userIDFromCtx(c), usecase.GoalInput{
		GoalType:            req.GoalType,
		DailyCalories:       req.DailyCalories,
		DailyProtein:        req.DailyProtein,
		DailyCarbs:          req.DailyCarbs,
		DailyFat:            req.DailyFat,
		DailyFiber:          req.DailyFiber,
		DailyWaterML:        req.DailyWaterML,
		Weight:              req.Weight,
		Height:              req.Height,
		Age:                 req.Age,
		Gender:              req.Gender,
		ActivityLevel:       req.ActivityLevel,
		DietaryRestrictions: req.DietaryRestrictions,
		Allergies:           req.Allergies,
	})
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, goal)
}

func (h *NutritionHandler) Progress(c echo.Context) error {
	progress, err := h.service.DailyProgress(c.Request().Context(), userIDFromCtx(c), c.QueryParam("date"))
	if err != nil {
		status, code := errorStatus(err)
		return res.ErrorJSON(c, status, code, err.Error(), requestIDFromCtx(c), nil)
	}
	return res.JSON(c, http.StatusOK, progress)
}
