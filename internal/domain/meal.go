package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// FoodItem is a single detected component of a meal, as estimated by
// the vision model or entered manually.
type FoodItem struct {
	Name             string  `json:"name"`
	EstimatedPortion string  `json:"estimatedPortion,omitempty"`
	Calories         float64 `json:"calories"`
	Protein          float64 `json:"protein"`
	Carbs            float64 `json:"carbs"`
	Fat              float64 `json:"fat"`
	Fiber            float64 `json:"fiber"`
	Sugar            float64 `json:"sugar"`
}

type Meal struct {
	ID          string   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string   `gorm:"type:uuid;index;not null" json:"user_id"`
	MealType    MealType `gorm:"type:text;not null" json:"meal_type"`
	FoodName    string   `gorm:"not null" json:"food_name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Calories    float64  `gorm:"not null" json:"calories"`
	Protein     float64  `gorm:"not null" json:"protein"`
	Carbs       float64  `gorm:"not null" json:"carbs"`
	Fat         float64  `gorm:"not null" json:"fat"`
	Fiber       float64  `gorm:"not null;default:0" json:"fiber"`
	Sugar       float64  `gorm:"not null;default:0" json:"sugar"`
	Sodium      float64  `gorm:"not null;default:0" json:"sodium"`

	ServingSize  float64    `gorm:"not null;default:1" json:"serving_size"`
	ServingUnit  string     `gorm:"not null;default:serving" json:"serving_unit"`
	AIConfidence *float64   `json:"ai_confidence,omitempty"`
	FoodItems    []FoodItem `gorm:"type:jsonb;serializer:json" json:"food_items,omitempty"`
	LoggedAt     time.Time  `gorm:"index;not null" json:"logged_at"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Meal) TableName() string { return "meals" }

func (m *Meal) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.LoggedAt.IsZero() {
		m.LoggedAt = time.Now().UTC()
	}
	return nil
}
