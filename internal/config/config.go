package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port          int
	AppEnv        string
	LogLevel      string
	LogFormat     string
	RoundDuration time.Duration
	JWTSecret     string
	Admins        []string
	RateLimitMax  int

	House    House
	Database Database
	Redis    Redis
}

// House configures the automatic round resolver.
type House struct {
	Enabled   bool
	Principal string
	Interval  time.Duration
}

type Database struct {
	Host           string
	Port           string
	Name           string
	Username       string
	Password       string
	Schema         string
	MigrationsPath string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

func Load() *Config {
	cfg := &Config{
		Port:          getEnvAsInt("PORT", 8080),
		AppEnv:        getEnv("APP_ENV", "local"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		RoundDuration: getEnvAsDuration("ROUND_DURATION", 30*time.Second),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		Admins:        getEnvAsList("ADMIN_PRINCIPALS"),
		RateLimitMax:  getEnvAsInt("RATE_LIMIT_MAX", 100),
		House: House{
			Enabled:   getEnvAsBool("HOUSE_ENABLED", false),
			Principal: getEnv("HOUSE_PRINCIPAL", "house"),
			Interval:  getEnvAsDuration("HOUSE_INTERVAL", time.Second),
		},
		Database: Database{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			Name:           getEnv("DB_DATABASE", "wingo"),
			Username:       getEnv("DB_USERNAME", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			Schema:         getEnv("DB_SCHEMA", "public"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", ""),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_URL", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}
	if cfg.House.Enabled && cfg.House.Principal != "" {
		cfg.Admins = append(cfg.Admins, cfg.House.Principal)
	}
	return cfg
}

// SetupLogging applies the configured level and format to the standard logrus logger.
func (c *Config) SetupLogging() {
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d > 0 {
			return d
		}
	}
	return defaultVal
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
