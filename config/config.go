package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	AppName      string `env:"APP_NAME" envDefault:"nutrisnap-backend"`
	AppEnv       string `env:"APP_ENV" envDefault:"local"`
	HTTPHost     string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort     string `env:"HTTP_PORT" envDefault:"3001"`
	HTTPBasePath string `env:"HTTP_BASE_PATH" envDefault:"/api/v1"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"app"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"app_password"`
	DBName     string `env:"DB_NAME" envDefault:"nutrisnap"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	JWTSecret     string        `env:"JWT_SECRET"`
	JWTPrivateKey string        `env:"JWT_PRIVATE_KEY"`
	JWTPublicKey  string        `env:"JWT_PUBLIC_KEY"`
	JWTAudience   string        `env:"JWT_AUDIENCE" envDefault:"frontend"`
	JWTIssuer     string        `env:"JWT_ISSUER" envDefault:"nutrisnap-backend"`
	TokenTTL      time.Duration `env:"JWT_TTL" envDefault:"24h"`

	GoogleAuthEnabled  bool   `env:"GOOGLE_AUTH_ENABLED" envDefault:"false"`
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	NATSURL                string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSVerifySubject      string `env:"NATS_SUBJECT_VERIFY_JWT" envDefault:"auth.verifyJWT"`
	NATSWelcomeMailSubject string `env:"NATS_SUBJECT_MAIL_WELCOME" envDefault:"mail.send-welcome"`

	VisionAPIURL   string `env:"VISION_API_URL" envDefault:"https://api.anthropic.com"`
	VisionAPIKey   string `env:"VISION_API_KEY"`
	VisionModel    string `env:"VISION_MODEL" envDefault:"claude-sonnet-4-20250514"`
	VisionMaxToken int    `env:"VISION_MAX_TOKENS" envDefault:"1500"`

	DefaultRole string `env:"DEFAULT_ROLE" envDefault:"user"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}
