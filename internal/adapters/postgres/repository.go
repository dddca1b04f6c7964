package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/AlexTheWizardL/nutrisnap-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByProviderAndID(ctx context.Context, provider domain.AuthProvider, providerID string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}

type MealRepository interface {
	Create(ctx context.Context, meal *domain.Meal) error
	FindByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Meal, error)
	FindByID(ctx context.Context, userID, id string) (*domain.Meal, error)
	FindByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Meal, error)
	Delete(ctx context.Context, userID, id string) (int64, error)
}

type NutritionGoalRepository interface {
	FindByUser(ctx context.Context, userID string) (*domain.NutritionGoal, error)
	Save(ctx context.Context, goal *domain.NutritionGoal) error
}

type userRepo struct{ db *gorm.DB }

type mealRepo struct{ db *gorm.DB }

type nutritionGoalRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func NewMealRepository(db *gorm.DB) MealRepository { return &mealRepo{db: db} }

func NewNutritionGoalRepository(db *gorm.DB) NutritionGoalRepository {
	return &nutritionGoalRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByProviderAndID(ctx context.Context, provider domain.AuthProvider, providerID string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_id = ?", provider, providerID).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id).Error
}

func (r *mealRepo) Create(ctx context.Context, meal *domain.Meal) error {
	return r.db.WithContext(ctx).Create(meal).Error
}

func (r *mealRepo) FindByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Meal, error) {
	var meals []domain.Meal
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("logged_at DESC").
		Limit(limit).Offset(offset).
		Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *mealRepo) FindByID(ctx context.Context, userID, id string) (*domain.Meal, error) {
	var meal domain.Meal
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

func (r *mealRepo) FindByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Meal, error) {
	var meals []domain.Meal
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND logged_at BETWEEN ? AND ?", userID, from, to).
		Order("logged_at").
		Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *mealRepo) Delete(ctx context.Context, userID, id string) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&domain.Meal{}, "id = ? AND user_id = ?", id, userID)
	return res.RowsAffected, res.Error
}

func (r *nutritionGoalRepo) FindByUser(ctx context.Context, userID string) (*domain.NutritionGoal, error) {
	var goal domain.NutritionGoal
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (r *nutritionGoalRepo) Save(ctx context.Context, goal *domain.NutritionGoal) error {
	return r.db.WithContext(ctx).Save(goal).Error
}
