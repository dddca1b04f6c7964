package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/AlexTheWizardL/nutrisnap-backend/config"
	repo "github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/postgres"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/domain"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/telegram"
	pkglog "github.com/AlexTheWizardL/nutrisnap-backend/pkg/log"
)

var (
	ErrEmailExists        = errors.New("user with this email already exists")
	ErrProviderConflict   = errors.New("email already exists with different provider")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidAuthData    = errors.New("invalid authentication data")
	ErrNotFound           = errors.New("not found")
)

// WelcomeMailer delivers the post-signup notification. Errors from it
// are logged and never surfaced to the authenticating caller.
type WelcomeMailer interface {
	SendWelcome(ctx context.Context, email, firstName string) error
}

// OAuthProfile is the normalized identity an upstream OAuth provider
// already authenticated. No further cryptographic check happens here.
type OAuthProfile struct {
	Email      string
	FirstName  string
	LastName   string
	ProviderID string
}

type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type AuthResult struct {
	User        *domain.User
	AccessToken string
	ExpiresIn   int64
}

type TelegramAuthResult struct {
	AuthResult
	TelegramID int64
	Username   string
}

type AuthService interface {
	Signup(ctx context.Context, traceID string, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, traceID, email, password string) (*AuthResult, error)
	GoogleLogin(ctx context.Context, traceID string, profile OAuthProfile) (*AuthResult, error)
	TelegramLogin(ctx context.Context, traceID, initData string) (*TelegramAuthResult, error)
}

type authService struct {
	cfg      *config.Config
	logger   pkglog.Logger
	users    repo.UserRepository
	verifier *telegram.Verifier
	mailer   WelcomeMailer
	signer   JWTSigner
}

// NewAuthService wires the auth orchestrator. verifier and mailer are
// optional collaborators and may be nil when their provider or broker
// is not configured.
func NewAuthService(cfg *config.Config, logger pkglog.Logger, users repo.UserRepository, verifier *telegram.Verifier, mailer WelcomeMailer, signer JWTSigner) AuthService {
	return &authService{cfg: cfg, logger: logger, users: users, verifier: verifier, mailer: mailer, signer: signer}
}

func (s *authService) Signup(ctx context.Context, traceID string, in SignupInput) (*AuthResult, error) {
	norm := normalizeEmail(in.Email)
	if err := validateEmail(norm); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, norm); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        norm,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Provider:     domain.ProviderLocal,
		Roles:        []domain.UserRole{domain.UserRole(s.cfg.DefaultRole)},
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent signup for the same email lands here; the store's
		// uniqueness constraint is the authority, not the pre-check
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	s.sendWelcome(user)
	s.logger.Info().Str("trace_id", traceID).Str("user_id", user.ID).Msg("local signup")
	return s.result(user)
}

func (s *authService) Login(ctx context.Context, traceID, email, password string) (*AuthResult, error) {
	norm := normalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, norm)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		// provider-established accounts have no usable password
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		s.logger.Warn().Str("trace_id", traceID).Str("user_id", user.ID).Msg("login attempt on inactive account")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().Str("trace_id", traceID).Str("user_id", user.ID).Msg("local login")
	return s.result(user)
}

func (s *authService) GoogleLogin(ctx context.Context, traceID string, profile OAuthProfile) (*AuthResult, error) {
	user, err := s.users.FindByProviderAndID(ctx, domain.ProviderGoogle, profile.ProviderID)
	if err == nil {
		s.logger.Info().Str("trace_id", traceID).Str("user_id", user.ID).Msg("google login")
		return s.result(user)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	norm := normalizeEmail(profile.Email)
	if _, err := s.users.FindByEmail(ctx, norm); err == nil {
		// same email already owned through another provider; refuse to
		// link silently
		return nil, ErrProviderConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	providerID := profile.ProviderID
	user = &domain.User{
		Email:      norm,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Provider:   domain.ProviderGoogle,
		ProviderID: &providerID,
		Roles:      []domain.UserRole{domain.UserRole(s.cfg.DefaultRole)},
		IsActive:   true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProviderConflict
		}
		return nil, err
	}

	s.sendWelcome(user)
	s.logger.Info().Str("trace_id", traceID).Str("user_id", user.ID).Msg("google signup")
	return s.result(user)
}

func (s *authService) TelegramLogin(ctx context.Context, traceID, initData string) (*TelegramAuthResult, error) {
	if s.verifier == nil {
		return nil, ErrInvalidAuthData
	}
	profile, err := s.verifier.Verify(initData)
	if err != nil {
		s.logger.Warn().Str("trace_id", traceID).Err(err).Msg("telegram init data rejected")
		return nil, ErrInvalidAuthData
	}

	providerID := strconv.FormatInt(profile.ID, 10)
	user, err := s.users.FindByProviderAndID(ctx, domain.ProviderTelegram, providerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &domain.User{
			Email:      fmt.Sprintf("tg_%d@telegram.user", profile.ID),
			FirstName:  profile.FirstName,
			LastName:   profile.LastName,
			Provider:   domain.ProviderTelegram,
			ProviderID: &providerID,
			Roles:      []domain.UserRole{domain.UserRole(s.cfg.DefaultRole)},
			IsActive:   true,
		}
		if createErr := s.users.Create(ctx, user); createErr != nil {
			if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
				return nil, createErr
			}
			// concurrent first login; the row exists now
			user, err = s.users.FindByProviderAndID(ctx, domain.ProviderTelegram, providerID)
			if err != nil {
				return nil, err
			}
		} else {
			s.logger.Info().Str("trace_id", traceID).Str("user_id", user.ID).Int64("telegram_id", profile.ID).Msg("created user from telegram")
		}
	} else if err != nil {
		return nil, err
	}

	res, err := s.result(user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("trace_id", traceID).Str("user_id", user.ID).Msg("telegram login")
	return &TelegramAuthResult{AuthResult: *res, TelegramID: profile.ID, Username: profile.Username}, nil
}

func (s *authService) result(user *domain.User) (*AuthResult, error) {
	claims := map[string]interface{}{"email": user.Email, "roles": user.Roles}
	access, err := s.signer.SignAccessToken(user.ID, claims)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: access, ExpiresIn: int64(s.signer.TTL().Seconds())}, nil
}

// sendWelcome fires the notification off-request. The result is
// observed only for logging.
func (s *authService) sendWelcome(user *domain.User) {
	if s.mailer == nil {
		return
	}
	email, name := user.Email, user.FirstName
	if name == "" {
		name = "User"
	}
	logger := s.logger
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.mailer.SendWelcome(ctx, email, name); err != nil {
			logger.Warn().Err(err).Str("email", email).Msg("failed to send welcome email")
		}
	}()
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func validateEmail(email string) error {
	if !strings.Contains(email, "@") || len(email) > 255 {
		return fmt.Errorf("invalid email")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password too short")
	}
	return nil
}
