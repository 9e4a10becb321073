package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://shop.example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "modshop", cfg.Mongo.DB)
	assert.Equal(t, time.Hour, cfg.Auth.JWTTTL)
	assert.Equal(t, 10*time.Minute, cfg.Auth.OTPTTL)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://shop.example.com"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 3, cfg.Mailer.MaxAttempts)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "5000")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("AUTH_RATE_LIMIT", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.JWTTTL)
	assert.Equal(t, 0.5, cfg.HTTP.AuthRateLimit)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateAdminPair(t *testing.T) {
	cfg := &Config{
		HTTP:   HTTPConfig{Port: 8080},
		Mongo:  MongoConfig{URI: "mongodb://x", DB: "modshop"},
		Auth:   AuthConfig{JWTSecret: "s", JWTTTL: time.Hour, OTPTTL: time.Minute},
		Mailer: MailerConfig{QueueSize: 1, MaxAttempts: 1},
		Admin:  AdminConfig{Username: "root"},
	}
	assert.Error(t, cfg.Validate())

	cfg.Admin.Password = "hunter22"
	assert.NoError(t, cfg.Validate())
}
