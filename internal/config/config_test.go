package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                      "development",
		JWTSecret:                "secure-secret-at-least-32-chars-long",
		JWTTTL:                   time.Hour,
		DBPassword:               "secure-password",
		DBSSLMode:                "require",
		Port:                     "8000",
		MaxUploadMB:              5,
		DBConnMaxLifetimeMinutes: 1,
		DBSchemaMode:             "hybrid",
		RedisURL:                 "redis://localhost:6379",
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateProductionSecrets(t *testing.T) {
	c := validConfig()
	c.Env = "production"
	c.JWTSecret = defaultJWTSecret
	assert.Error(t, c.Validate())

	c = validConfig()
	c.Env = "production"
	c.JWTSecret = "short"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.Env = "production"
	c.DBPassword = "password"
	assert.Error(t, c.Validate())

	c = validConfig()
	c.Env = "production"
	c.AllowedOrigins = "*"
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateRequiredValues(t *testing.T) {
	c := validConfig()
	c.Port = ""
	assert.Error(t, c.Validate())

	c = validConfig()
	c.JWTTTL = 0
	assert.Error(t, c.Validate())

	c = validConfig()
	c.DBSchemaMode = "yolo"
	assert.Error(t, c.Validate())
}

func TestLoadConfig_EnvOverridesAndNormalization(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("MAX_UPLOAD_MB", "8")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, 2*time.Hour, c.JWTTTL)
	assert.Equal(t, int64(8*1024*1024), c.MaxUploadBytes())
	assert.Equal(t, "8000", c.Port)
}

func TestLoadConfig_MissingProfileFileIsTolerated(t *testing.T) {
	defer viper.Reset()
	t.Setenv("APP_ENV", "test")
	_ = os.Unsetenv("DB_SSLMODE")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "test", c.Env)
	assert.Equal(t, "hybrid", c.DBSchemaMode)
}
