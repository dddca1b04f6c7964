package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	repo "github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/postgres"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/domain"
	pkglog "github.com/AlexTheWizardL/nutrisnap-backend/pkg/log"
)

const dateLayout = "2006-01-02"

type CreateMealInput struct {
	MealType     domain.MealType
	FoodName     string
	Description  string
	ImageURL     string
	Calories     float64
	Protein      float64
	Carbs        float64
	Fat          float64
	Fiber        float64
	Sugar        float64
	Sodium       float64
	ServingSize  float64
	ServingUnit  string
	AIConfidence *float64
	FoodItems    []domain.FoodItem
	LoggedAt     *time.Time
}

type DailySummary struct {
	Date          string        `json:"date"`
	TotalCalories float64       `json:"total_calories"`
	TotalProtein  float64       `json:"total_protein"`
	TotalCarbs    float64       `json:"total_carbs"`
	TotalFat      float64       `json:"total_fat"`
	TotalFiber    float64       `json:"total_fiber"`
	MealCount     int           `json:"meal_count"`
	Meals         []domain.Meal `json:"meals"`
}

type MealStats struct {
	AverageCalories int `json:"average_calories"`
	AverageProtein  int `json:"average_protein"`
	AverageCarbs    int `json:"average_carbs"`
	AverageFat      int `json:"average_fat"`
	TotalMeals      int `json:"total_meals"`
	Streak          int `json:"streak"`
}

type MealService interface {
	Create(ctx context.Context, traceID, userID string, in CreateMealInput) (*domain.Meal, error)
	List(ctx context.Context, userID string, limit, offset int) ([]domain.Meal, error)
	Get(ctx context.Context, userID, id string) (*domain.Meal, error)
	Delete(ctx context.Context, traceID, userID, id string) error
	DailySummary(ctx context.Context, userID, date string) (*DailySummary, error)
	WeeklySummary(ctx context.Context, userID, startDate string) ([]DailySummary, error)
	Stats(ctx context.Context, userID string, days int) (*MealStats, error)
}

type mealService struct {
	logger pkglog.Logger
	meals  repo.MealRepository
}

func NewMealService(logger pkglog.Logger, meals repo.MealRepository) MealService {
	return &mealService{logger: logger, meals: meals}
}

func (s *mealService) Create(ctx context.Context, traceID, userID string, in CreateMealInput) (*domain.Meal, error) {
	meal := &domain.Meal{
		UserID:       userID,
		MealType:     in.MealType,
		FoodName:     in.FoodName,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		Calories:     in.Calories,
		Protein:      in.Protein,
		Carbs:        in.Carbs,
		Fat:          in.Fat,
		Fiber:        in.Fiber,
		Sugar:        in.Sugar,
		Sodium:       in.Sodium,
		ServingSize:  in.ServingSize,
		ServingUnit:  in.ServingUnit,
		AIConfidence: in.AIConfidence,
		FoodItems:    in.FoodItems,
	}
	if meal.ServingSize == 0 {
		meal.ServingSize = 1
	}
	if meal.ServingUnit == "" {
		meal.ServingUnit = "serving"
	}
	if in.LoggedAt != nil {
		meal.LoggedAt = *in.LoggedAt
	}
	if err := s.meals.Create(ctx, meal); err != nil {
		return nil, err
	}
	s.logger.Info().Str("trace_id", traceID).Str("user_id", userID).Str("meal_id", meal.ID).Msg("meal logged")
	return meal, nil
}

func (s *mealService) List(ctx context.Context, userID string, limit, offset int) ([]domain.Meal, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.meals.FindByUser(ctx, userID, limit, offset)
}

func (s *mealService) Get(ctx context.Context, userID, id string) (*domain.Meal, error) {
	meal, err := s.meals.FindByID(ctx, userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return meal, err
}

func (s *mealService) Delete(ctx context.Context, traceID, userID, id string) error {
	affected, err := s.meals.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	s.logger.Info().Str("trace_id", traceID).Str("user_id", userID).Str("meal_id", id).Msg("meal deleted")
	return nil
}

func (s *mealService) DailySummary(ctx context.Context, userID, date string) (*DailySummary, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	from := day
	to := day.Add(24*time.Hour - time.Nanosecond)

	meals, err := s.meals.FindByUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	summary := &DailySummary{Date: date, MealCount: len(meals), Meals: meals}
	for _, m := range meals {
		summary.TotalCalories += m.Calories
		summary.TotalProtein += m.Protein
		summary.TotalCarbs += m.Carbs
		summary.TotalFat += m.Fat
		summary.TotalFiber += m.Fiber
	}

	summary.TotalCalories = math.Round(summary.TotalCalories)
	summary.TotalProtein = round1(summary.TotalProtein)
	summary.TotalCarbs = round1(summary.TotalCarbs)
	summary.TotalFat = round1(summary.TotalFat)
	summary.TotalFiber = round1(summary.TotalFiber)
	return summary, nil
}

func (s *mealService) WeeklySummary(ctx context.Context, userID, startDate string) ([]DailySummary, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	summaries := make([]DailySummary, 0, 7)
	for i := 0; i < 7; i++ {
		summary, err := s.DailySummary(ctx, userID, start.AddDate(0, 0, i).Format(dateLayout))
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

func (s *mealService) Stats(ctx context.Context, userID string, days int) (*MealStats, error) {
	if days <= 0 {
		days = 30
	}
	now := time.Now().UTC()
	meals, err := s.meals.FindByUserBetween(ctx, userID, now.AddDate(0, 0, -days), now)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return &MealStats{}, nil
	}

	type totals struct{ calories, protein, carbs, fat float64 }
	daily := map[string]totals{}
	for _, m := range meals {
		key := m.LoggedAt.UTC().Format(dateLayout)
		t := daily[key]
		t.calories += m.Calories
		t.protein += m.Protein
		t.carbs += m.Carbs
		t.fat += m.Fat
		daily[key] = t
	}

	var sum totals
	for _, t := range daily {
		sum.calories += t.calories
		sum.protein += t.protein
		sum.carbs += t.carbs
		sum.fat += t.fat
	}
	logged := float64(len(daily))

	// streak counts consecutive logged days ending today; a missing
	// today does not break it yet
	streak := 0
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		key := today.AddDate(0, 0, -i).Format(dateLayout)
		if _, ok := daily[key]; ok {
			streak++
		} else if i > 0 {
			break
		}
	}

	return &MealStats{
		AverageCalories: int(math.Round(sum.calories / logged)),
		AverageProtein:  int(math.Round(sum.protein / logged)),
		AverageCarbs:    int(math.Round(sum.carbs / logged)),
		AverageFat:      int(math.Round(sum.fat / logged)),
		TotalMeals:      len(meals),
		Streak:          streak,
	}, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
