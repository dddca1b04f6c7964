package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NutritionGoalType string

const (
	GoalLoseWeight  NutritionGoalType = "lose_weight"
	GoalMaintain    NutritionGoalType = "maintain"
	GoalGainWeight  NutritionGoalType = "gain_weight"
	GoalBuildMuscle NutritionGoalType = "build_muscle"
)

// NutritionGoal holds one row of daily targets per user, plus the body
// stats used to derive them when the client does not set calories
// explicitly.
type NutritionGoal struct {
	ID       string            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string            `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	GoalType NutritionGoalType `gorm:"type:text;not null;default:maintain" json:"goal_type"`

	DailyCalories int `gorm:"not null;default:2000" json:"daily_calories"`
	DailyProtein  int `gorm:"not null;default:50" json:"daily_protein"`
	DailyCarbs    int `gorm:"not null;default:250" json:"daily_carbs"`
	DailyFat      int `gorm:"not null;default:65" json:"daily_fat"`
	DailyFiber    int `gorm:"not null;default:25" json:"daily_fiber"`
	DailyWaterML  int `gorm:"not null;default:2000" json:"daily_water_ml"`

	Weight        *float64 `json:"weight,omitempty"`
	WeightUnit    string   `gorm:"not null;default:kg" json:"weight_unit"`
	Height        *int     `json:"height,omitempty"`
	HeightUnit    string   `gorm:"not null;default:cm" json:"height_unit"`
	Age           *int     `json:"age,omitempty"`
	Gender        string   `json:"gender,omitempty"`
	ActivityLevel string   `gorm:"not null;default:moderate" json:"activity_level"`

	DietaryRestrictions []string `gorm:"type:jsonb;serializer:json" json:"dietary_restrictions,omitempty"`
	Allergies           []string `gorm:"type:jsonb;serializer:json" json:"allergies,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (NutritionGoal) TableName() string { return "nutrition_goals" }

func (g *NutritionGoal) BeforeCreate(_ *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.GoalType == "" {
		g.GoalType = GoalMaintain
	}
	return nil
}
