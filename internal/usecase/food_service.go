package usecase

import (
	"context"
	"errors"
	"math"

	"github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/vision"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/domain"
	pkglog "github.com/AlexTheWizardL/nutrisnap-backend/pkg/log"
)

var (
	ErrAnalysisUnavailable = errors.New("food analysis is not configured")
	ErrAnalysisFailed      = errors.New("failed to analyze food image")
)

type FoodAnalysisInput struct {
	ImageBase64 string
	Context     string
}

type FoodAnalysis struct {
	Success        bool              `json:"success"`
	FoodName       string            `json:"food_name"`
	Description    string            `json:"description"`
	FoodItems      []domain.FoodItem `json:"food_items"`
	TotalNutrition NutrientAmounts   `json:"total_nutrition"`
	Confidence     float64           `json:"confidence"`
	Suggestions    []string          `json:"suggestions"`
}

type FoodAnalysisService interface {
	Analyze(ctx context.Context, traceID string, in FoodAnalysisInput) (*FoodAnalysis, error)
}

type foodAnalysisService struct {
	logger pkglog.Logger
	vision vision.Client
}

// NewFoodAnalysisService builds the analysis orchestrator. client may
// be nil when no vision API key is configured; analysis then fails
// with ErrAnalysisUnavailable.
func NewFoodAnalysisService(logger pkglog.Logger, client vision.Client) FoodAnalysisService {
	return &foodAnalysisService{logger: logger, vision: client}
}

func (s *foodAnalysisService) Analyze(ctx context.Context, traceID string, in FoodAnalysisInput) (*FoodAnalysis, error) {
	if s.vision == nil {
		return nil, ErrAnalysisUnavailable
	}
	if in.ImageBase64 == "" {
		return nil, ErrAnalysisFailed
	}

	result, err := s.vision.AnalyzeImage(ctx, vision.Request{ImageBase64: in.ImageBase64, Context: in.Context})
	if err != nil {
		s.logger.Error().Str("trace_id", traceID).Err(err).Msg("food analysis failed")
		return nil, ErrAnalysisFailed
	}

	var total NutrientAmounts
	for _, item := range result.FoodItems {
		total.Calories += item.Calories
		total.Protein += item.Protein
		total.Carbs += item.Carbs
		total.Fat += item.Fat
		total.Fiber += item.Fiber
	}
	total.Calories = math.Round(total.Calories)
	total.Protein = round1(total.Protein)
	total.Carbs = round1(total.Carbs)
	total.Fat = round1(total.Fat)
	total.Fiber = round1(total.Fiber)

	s.logger.Info().Str("trace_id", traceID).Str("food", result.FoodName).Float64("confidence", result.Confidence).Msg("food analyzed")
	return &FoodAnalysis{
		Success:        true,
		FoodName:       result.FoodName,
		Description:    result.Description,
		FoodItems:      result.FoodItems,
		TotalNutrition: total,
		Confidence:     result.Confidence,
		Suggestions:    result.Suggestions,
	}, nil
}
