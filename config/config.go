package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Empty URLs disable the matching integration.
	RabbitURL string
	RedisURL  string
	MongoURI  string
	MongoDB   string

	CatalogQueue    string
	CatalogPrefetch int

	JWTSecret string
	LogLevel  string

	ReconcileInterval    time.Duration
	AvailabilityCacheTTL time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:           getEnv("SERVER_PORT", "8082"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBUser:               getEnv("DB_USER", "postgres"),
		DBPassword:           getEnv("DB_PASSWORD", "postgres"),
		DBName:               getEnv("DB_NAME", "adventure_db"),
		DBSSLMode:            getEnv("DB_SSLMODE", "disable"),
		RabbitURL:            os.Getenv("RABBITMQ_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		MongoURI:             os.Getenv("MONGO_URI"),
		MongoDB:              getEnv("MONGO_DB", "adventure_audit"),
		CatalogQueue:         getEnv("CATALOG_QUEUE", "adventure-service.catalog"),
		CatalogPrefetch:      getInt("CATALOG_PREFETCH", 10),
		JWTSecret:            getEnv("JWT_SECRET", "change-me"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		ReconcileInterval:    getDuration("RECONCILE_INTERVAL", 15*time.Minute),
		AvailabilityCacheTTL: getDuration("AVAILABILITY_CACHE_TTL", 30*time.Second),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getDuration accepts Go durations ("90s") or plain seconds ("90").
func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}
