package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Services ServicesConfig
	Redis    RedisConfig
	Sync     SyncConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

// ServicesConfig holds the base URLs of the backend microservices the
// gateway aggregates. Every URL is required except Requests, which keeps
// the historical local fallback until the solicitudes service gets its own
// deployment entry.
type ServicesConfig struct {
	Users         string
	Registry      string // user registration lives on a separate service
	Places        string
	Notifications string
	Moderation    string
	Requests      string
	Bridge        string // AI agent bridge
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SyncConfig struct {
	PlacesInterval        time.Duration
	RequestsInterval      time.Duration
	RosterInterval        time.Duration
	NotificationsInterval time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Services: ServicesConfig{
			Users:         os.Getenv("USERS_URL"),
			Registry:      os.Getenv("REGISTRY_URL"),
			Places:        os.Getenv("PLACES_URL"),
			Notifications: os.Getenv("NOTIFICATIONS_URL"),
			Moderation:    os.Getenv("MODERATION_URL"),
			Requests:      getEnv("REQUESTS_URL", "http://localhost:5007"),
			Bridge:        os.Getenv("BRIDGE_URL"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Sync: SyncConfig{
			PlacesInterval:        getEnvAsDuration("SYNC_PLACES_INTERVAL", 10*time.Second),
			RequestsInterval:      getEnvAsDuration("SYNC_REQUESTS_INTERVAL", 10*time.Second),
			RosterInterval:        getEnvAsDuration("SYNC_ROSTER_INTERVAL", 10*time.Second),
			NotificationsInterval: getEnvAsDuration("SYNC_NOTIFICATIONS_INTERVAL", 30*time.Second),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	required := map[string]string{
		"USERS_URL":         c.Services.Users,
		"REGISTRY_URL":      c.Services.Registry,
		"PLACES_URL":        c.Services.Places,
		"NOTIFICATIONS_URL": c.Services.Notifications,
		"MODERATION_URL":    c.Services.Moderation,
		"BRIDGE_URL":        c.Services.Bridge,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", key)
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
