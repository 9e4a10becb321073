package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTP   HTTPConfig
	Mongo  MongoConfig
	Auth   AuthConfig
	SMTP   SMTPConfig
	Mailer MailerConfig
	Log    LogConfig
	Admin  AdminConfig
}

type HTTPConfig struct {
	Port           int
	AllowedOrigins []string
	UploadDir      string
	AuthRateLimit  float64
	AuthRateBurst  int
}

type MongoConfig struct {
	URI string
	DB  string
}

type AuthConfig struct {
	JWTSecret string
	JWTTTL    time.Duration
	OTPTTL    time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type MailerConfig struct {
	QueueSize   int
	MaxAttempts int
}

type LogConfig struct {
	Level  string
	Format string
}

// AdminConfig holds the credentials of the admin account created on first start.
type AdminConfig struct {
	Username string
	Password string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTP: HTTPConfig{
			Port:           getEnvInt("PORT", 8080),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),
			UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
			AuthRateLimit:  getEnvFloat("AUTH_RATE_LIMIT", 3),
			AuthRateBurst:  getEnvInt("AUTH_RATE_BURST", 5),
		},
		Mongo: MongoConfig{
			URI: getEnv("MONGO_URI", ""),
			DB:  getEnv("MONGO_DB", "modshop"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			JWTTTL:    getEnvDuration("JWT_TTL", time.Hour),
			OTPTTL:    getEnvDuration("OTP_TTL", 10*time.Minute),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASS", ""),
		},
		Mailer: MailerConfig{
			QueueSize:   getEnvInt("MAILER_QUEUE_SIZE", 100),
			MaxAttempts: getEnvInt("MAILER_MAX_ATTEMPTS", 3),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.Mongo.DB == "" {
		return fmt.Errorf("MONGO_DB is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.Auth.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive")
	}
	if c.Mailer.QueueSize <= 0 {
		return fmt.Errorf("MAILER_QUEUE_SIZE must be positive")
	}
	if c.Mailer.MaxAttempts <= 0 {
		return fmt.Errorf("MAILER_MAX_ATTEMPTS must be positive")
	}
	if (c.Admin.Username == "") != (c.Admin.Password == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// The numeric getters fall back to the default on parse errors; Validate catches the
// values that matter.
func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
