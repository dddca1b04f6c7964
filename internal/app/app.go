package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	nats "github.com/nats-io/nats.go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/AlexTheWizardL/nutrisnap-backend/config"
	httpadapter "github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/http"
	apiv1 "github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/http/api/v1"
	handlers "github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/http/api/v1/handlers"
	authmw "github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/http/middleware"
	natsadapter "github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/nats"
	repo "github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/postgres"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/adapters/vision"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/domain"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/oauth"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/telegram"
	"github.com/AlexTheWizardL/nutrisnap-backend/internal/usecase"
	pkglog "github.com/AlexTheWizardL/nutrisnap-backend/pkg/log"
)

type App struct {
	cfg      *config.Config
	logger   pkglog.Logger
	db       *gorm.DB
	natsConn *nats.Conn
	echo     *echo.Echo
}

func New(ctx context.Context) (*App, error) {
	cfg := config.MustLoad()
	log := pkglog.New(cfg.AppName, cfg.AppEnv)

	db, err := gorm.Open(postgres.Open(buildDSN(cfg)), &gorm.Config{
		Logger:         loggerForGorm(cfg),
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Meal{}, &domain.NutritionGoal{}); err != nil {
		return nil, err
	}

	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		log.Warn().Err(err).Msg("nats connect failed, mail delivery and token verification over nats are disabled")
		nc = nil
	}

	userRepo := repo.NewUserRepository(db)
	mealRepo := repo.NewMealRepository(db)
	goalRepo := repo.NewNutritionGoalRepository(db)

	signer, err := usecase.NewJWTSigner(cfg)
	if err != nil {
		return nil, err
	}

	var verifier *telegram.Verifier
	if cfg.TelegramBotToken != "" || cfg.AppEnv == "local" {
		verifier, err = telegram.NewVerifier(cfg.TelegramBotToken, cfg.AppEnv, log)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn().Msg("telegram login disabled, bot token is not set")
	}

	var google *oauth.GoogleProvider
	if cfg.GoogleAuthEnabled {
		google, err = oauth.NewGoogleProvider(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		if err != nil {
			return nil, fmt.Errorf("google oauth: %w", err)
		}
	}

	var mailer usecase.WelcomeMailer
	if nc != nil {
		mailer = natsadapter.NewMailClient(nc, cfg.NATSWelcomeMailSubject)
	}

	var visionClient vision.Client
	if cfg.VisionAPIKey != "" {
		visionClient = vision.NewHTTPClient(cfg.VisionAPIURL, cfg.VisionAPIKey, cfg.VisionModel, cfg.VisionMaxToken, 60*time.Second)
	} else {
		log.Warn().Msg("food analysis disabled, vision api key is not set")
	}

	authService := usecase.NewAuthService(cfg, log, userRepo, verifier, mailer, signer)
	userService := usecase.NewUserService(log, userRepo)
	mealService := usecase.NewMealService(log, mealRepo)
	nutritionService := usecase.NewNutritionService(log, goalRepo, mealService)
	foodService := usecase.NewFoodAnalysisService(log, visionClient)

	authMW := authmw.NewAuthMiddleware(signer)
	router := httpadapter.NewRouter(cfg, apiv1.NewRouter(
		handlers.NewAuthHandler(authService, google),
		handlers.NewUserHandler(userService),
		handlers.NewMealHandler(mealService),
		handlers.NewNutritionHandler(nutritionService),
		handlers.NewFoodAnalysisHandler(foodService),
		authMW.Handler,
	))

	if nc != nil {
		verifyHandler := natsadapter.NewVerifyHandler(signer)
		if err := verifyHandler.Subscribe(nc, cfg.NATSVerifySubject, cfg.AppName); err != nil {
			log.Warn().Err(err).Msg("failed to subscribe to jwt verify subject")
		}
	}

	e := echo.New()
	router.Setup(e)

	return &App{cfg: cfg, logger: log, db: db, natsConn: nc, echo: e}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info().Str("host", a.cfg.HTTPHost).Str("port", a.cfg.HTTPPort).Msg("starting http server")
	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.echo.Shutdown(shutdownCtx)
	}()
	go func() {
		errCh <- a.echo.Start(fmt.Sprintf("%s:%s", a.cfg.HTTPHost, a.cfg.HTTPPort))
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) Close() {
	if a.natsConn != nil {
		_ = a.natsConn.Drain()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
}

func loggerForGorm(cfg *config.Config) logger.Interface {
	level := logger.Silent
	switch cfg.AppEnv {
	case "local":
		level = logger.Info
	default:
		level = logger.Warn
	}
	return logger.Default.LogMode(level)
}
