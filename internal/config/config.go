package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"fintrack-api/pkg/logger"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort       string
	Env            string
	AllowedOrigins []string
	DB             DBConfig
	Auth           AuthConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// AuthConfig points at the external identity provider that owns users and
// sessions. The API never stores credentials; it only verifies bearer tokens.
type AuthConfig struct {
	ProviderURL string
	APIKey      string
	Timeout     time.Duration
	SkipAuth    bool
	MockUserID  string
}

func Load(log logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
		log.Debug("config: no .env file, using process environment")
	} else {
		log.Info("config: loaded .env")
	}

	return Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		AllowedOrigins: []string{getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173")},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "fintrack"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			ProviderURL: getEnv("AUTH_PROVIDER_URL", ""),
			APIKey:      getEnv("AUTH_API_KEY", ""),
			Timeout:     getEnvDuration("AUTH_TIMEOUT", 5*time.Second),
			SkipAuth:    getEnvBool("AUTH_SKIP", false),
			MockUserID:  getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
		},
	}, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
