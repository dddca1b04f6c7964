package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	repo "github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/postgres"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/domain"
	pkglog "github.com/AlexTheWizardL/nutrisnap-backend/pkg/log"
)

type GoalInput struct {
	GoalType      domain.NutritionGoalType
	DailyCalories int
	DailyProtein  int
	DailyCarbs    int
	DailyFat      int
	DailyFiber    int
	DailyWaterML  int

	Weight        *float64
	Height        *int
	Age           *int
	Gender        string
	ActivityLevel string

	DietaryRestrictions []string
	Allergies           []string
}

type NutrientAmounts struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

type NutrientPercents struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
	Fiber    int `json:"fiber"`
}

type DailyProgress struct {
	Date      string           `json:"date"`
	Goals     NutrientAmounts  `json:"goals"`
	Consumed  NutrientAmounts  `json:"consumed"`
	Remaining NutrientAmounts  `json:"remaining"`
	Progress  NutrientPercents `json:"progress"`
}

type NutritionService interface {
	Goal(ctx context.Context, userID string) (*domain.NutritionGoal, error)
	UpsertGoal(ctx context.Context, traceID, userID string, in GoalInput) (*domain.NutritionGoal, error)
	DailyProgress(ctx context.Context, userID, date string) (*DailyProgress, error)
}

type nutritionService struct {
	logger pkglog.Logger
	goals  repo.NutritionGoalRepository
	meals  MealService
}

func NewNutritionService(logger pkglog.Logger, goals repo.NutritionGoalRepository, meals MealService) NutritionService {
	return &nutritionService{logger: logger, goals: goals, meals: meals}
}

func (s *nutritionService) Goal(ctx context.Context, userID string) (*domain.NutritionGoal, error) {
	goal, err := s.goals.FindByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return goal, err
}

func (s *nutritionService) UpsertGoal(ctx context.Context, traceID, userID string, in GoalInput) (*domain.NutritionGoal, error) {
	goal, err := s.goals.FindByUser(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if goal == nil {
		goal = &domain.NutritionGoal{UserID: userID}
	}

	goalType := in.GoalType
	if goalType == "" {
		goalType = domain.GoalMaintain
	}
	activity := in.ActivityLevel
	if activity == "" {
		activity = "moderate"
	}

	// derive calories from body stats when the client does not set them
	calories := in.DailyCalories
	if calories == 0 && in.Weight != nil && in.Height != nil && in.Age != nil && in.Gender != "" {
		calories = recommendedCalories(*in.Weight, *in.Height, *in.Age, in.Gender, activity, goalType)
	}

	goal.GoalType = goalType
	goal.ActivityLevel = activity
	if calories > 0 {
		goal.DailyCalories = calories
	} else if goal.DailyCalories == 0 {
		goal.DailyCalories = 2000
	}
	if in.DailyProtein > 0 {
		goal.DailyProtein = in.DailyProtein
	} else if calories > 0 {
		protein, carbs, fat := macroSplit(calories, goalType)
		goal.DailyProtein = protein
		goal.DailyCarbs = carbs
		goal.DailyFat = fat
	}
	if in.DailyCarbs > 0 {
		goal.DailyCarbs = in.DailyCarbs
	}
	if in.DailyFat > 0 {
		goal.DailyFat = in.DailyFat
	}
	if in.DailyFiber > 0 {
		goal.DailyFiber = in.DailyFiber
	}
	if in.DailyWaterML > 0 {
		goal.DailyWaterML = in.DailyWaterML
	}
	if in.Weight != nil {
		goal.Weight = in.Weight
	}
	if in.Height != nil {
		goal.Height = in.Height
	}
	if in.Age != nil {
		goal.Age = in.Age
	}
	if in.Gender != "" {
		goal.Gender = in.Gender
	}
	if in.DietaryRestrictions != nil {
		goal.DietaryRestrictions = in.DietaryRestrictions
	}
	if in.Allergies != nil {
		goal.Allergies = in.Allergies
	}

	if err := s.goals.Save(ctx, goal); err != nil {
		return nil, err
	}
	s.logger.Info().Str("trace_id", traceID).Str("user_id", userID).Str("goal_type", string(goal.GoalType)).Msg("nutrition goal saved")
	return goal, nil
}

func (s *nutritionService) DailyProgress(ctx context.Context, userID, date string) (*DailyProgress, error) {
	if date == "" {
		date = time.Now().UTC().Format(dateLayout)
	}

	goal, err := s.goals.FindByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// first progress request provisions a default maintain goal
		goal = &domain.NutritionGoal{UserID: userID, GoalType: domain.GoalMaintain,
			DailyCalories: 2000, DailyProtein: 50, DailyCarbs: 250, DailyFat: 65, DailyFiber: 25, DailyWaterML: 2000}
		if err := s.goals.Save(ctx, goal); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	summary, err := s.meals.DailySummary(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	goals := NutrientAmounts{
		Calories: float64(goal.DailyCalories),
		Protein:  float64(goal.DailyProtein),
		Carbs:    float64(goal.DailyCarbs),
		Fat:      float64(goal.DailyFat),
		Fiber:    float64(goal.DailyFiber),
	}
	consumed := NutrientAmounts{
		Calories: summary.TotalCalories,
		Protein:  summary.TotalProtein,
		Carbs:    summary.TotalCarbs,
		Fat:      summary.TotalFat,
		Fiber:    summary.TotalFiber,
	}
	remaining := NutrientAmounts{
		Calories: math.Max(0, goals.Calories-consumed.Calories),
		Protein:  math.Max(0, goals.Protein-consumed.Protein),
		Carbs:    math.Max(0, goals.Carbs-consumed.Carbs),
		Fat:      math.Max(0, goals.Fat-consumed.Fat),
		Fiber:    math.Max(0, goals.Fiber-consumed.Fiber),
	}
	progress := NutrientPercents{
		Calories: pct(consumed.Calories, goals.Calories),
		Protein:  pct(consumed.Protein, goals.Protein),
		Carbs:    pct(consumed.Carbs, goals.Carbs),
		Fat:      pct(consumed.Fat, goals.Fat),
		Fiber:    pct(consumed.Fiber, goals.Fiber),
	}

	return &DailyProgress{Date: date, Goals: goals, Consumed: consumed, Remaining: remaining, Progress: progress}, nil
}

// recommendedCalories applies the Mifflin-St Jeor equation, an activity
// multiplier and a goal adjustment.
func recommendedCalories(weight float64, height, age int, gender, activityLevel string, goalType domain.NutritionGoalType) int {
	var bmr float64
	if strings.EqualFold(gender, "male") {
		bmr = 10*weight + 6.25*float64(height) - 5*float64(age) + 5
	} else {
		bmr = 10*weight + 6.25*float64(height) - 5*float64(age) - 161
	}

	multipliers := map[string]float64{
		"sedentary":   1.2,
		"light":       1.375,
		"moderate":    1.55,
		"active":      1.725,
		"very_active": 1.9,
	}
	multiplier, ok := multipliers[activityLevel]
	if !ok {
		multiplier = 1.55
	}
	tdee := bmr * multiplier

	adjustments := map[domain.NutritionGoalType]float64{
		domain.GoalLoseWeight:  -500,
		domain.GoalMaintain:    0,
		domain.GoalGainWeight:  300,
		domain.GoalBuildMuscle: 400,
	}
	return int(math.Round(tdee + adjustments[goalType]))
}

// macroSplit derives gram targets from a calorie budget using per-goal
// ratios (protein and carbs 4 kcal/g, fat 9 kcal/g).
func macroSplit(calories int, goalType domain.NutritionGoalType) (protein, carbs, fat int) {
	var proteinRatio, carbRatio, fatRatio float64
	switch goalType {
	case domain.GoalLoseWeight:
		proteinRatio, carbRatio, fatRatio = 0.35, 0.35, 0.30
	case domain.GoalBuildMuscle:
		proteinRatio, carbRatio, fatRatio = 0.35, 0.45, 0.20
	case domain.GoalGainWeight:
		proteinRatio, carbRatio, fatRatio = 0.25, 0.50, 0.25
	default:
		proteinRatio, carbRatio, fatRatio = 0.25, 0.50, 0.25
	}
	c := float64(calories)
	return int(math.Round(c * proteinRatio / 4)),
		int(math.Round(c * carbRatio / 4)),
		int(math.Round(c * fatRatio / 9))
}

func pct(consumed, goal float64) int {
	if goal <= 0 {
		return 0
	}
	return int(math.Round(consumed / goal * 100))
}
