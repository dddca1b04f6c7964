package usecase

import (
	"context"
	"errors"

	"gorm.io/gorm"

	repo "github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/postgres"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/domain"
	pkglog "github.com/AlexTheWizardL/nutrisnap-backend/pkg/log"
)

// UpdateUserInput carries the mutable profile fields. Email, provider
// and provider id are fixed at creation and cannot be changed here.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Roles     []domain.UserRole
	IsActive  *bool
}

type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, traceID, id string, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, traceID, id string) error
}

type userService struct {
	logger pkglog.Logger
	users  repo.UserRepository
}

func NewUserService(logger pkglog.Logger, users repo.UserRepository) UserService {
	return &userService{logger: logger, users: users}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.FindAll(ctx)
}

func (s *userService) Update(ctx context.Context, traceID, id string, in UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if len(in.Roles) > 0 {
		user.Roles = in.Roles
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("trace_id", traceID).Str("user_id", user.ID).Msg("user updated")
	return user, nil
}

func (s *userService) Delete(ctx context.Context, traceID, id string) error {
	if _, err := s.users.FindByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("trace_id", traceID).Str("user_id", id).Msg("user deleted")
	return nil
}
