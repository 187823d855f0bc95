package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Port                   string
	Store                  string
	DatabaseURL            string
	SimulatedLatency       time.Duration
	SeedDemoData           bool
	TimelineOnStatusChange bool

	RabbitMQURL string

	RedisURL     string
	SelectionTTL time.Duration

	Mail MailConfig

	FollowUpInterval   time.Duration
	CORSOrigins        []string
	RateLimitPerMinute int
	// TrustProxy reads the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy         bool

	LogLevel string
	LogFile  string
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	NotifyTo []string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	store := strings.ToLower(getEnvString("STORE", StoreMemory))

	cfg := &Config{
		Port:                   getEnvString("PORT", "8080"),
		Store:                  store,
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		SimulatedLatency:       getEnvDuration("SIMULATED_LATENCY", 500*time.Millisecond),
		SeedDemoData:           getEnvBool("SEED_DEMO_DATA", store == StoreMemory),
		TimelineOnStatusChange: getEnvBool("TIMELINE_ON_STATUS_CHANGE", false),
		RabbitMQURL:            os.Getenv("RABBITMQ_URL"),
		RedisURL:               os.Getenv("REDIS_URL"),
		SelectionTTL:           getEnvDuration("SELECTION_TTL", 24*time.Hour),
		Mail: MailConfig{
			Host:     os.Getenv("MAIL_HOST"),
			Port:     getEnvInt("MAIL_PORT", 587),
			User:     os.Getenv("MAIL_USER"),
			Password: os.Getenv("MAIL_PASS"),
			From:     getEnvString("MAIL_FROM", "pipeline@localhost"),
			NotifyTo: getEnvStringSlice("NOTIFY_TO", nil),
		},
		FollowUpInterval:   getEnvDuration("FOLLOW_UP_INTERVAL", time.Hour),
		CORSOrigins:        getEnvStringSlice("CORS_ORIGINS", []string{"http://localhost:5173"}),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 10),
		TrustProxy:         getEnvBool("TRUST_PROXY", false),
		LogLevel:           getEnvString("LOG_LEVEL", "INFO"),
		LogFile:            os.Getenv("LOG_FILE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("STORE must be %q or %q, got %q", StoreMemory, StorePostgres, c.Store)
	}
	if c.SimulatedLatency < 0 {
		return fmt.Errorf("SIMULATED_LATENCY must not be negative")
	}
	if c.SelectionTTL <= 0 {
		return fmt.Errorf("SELECTION_TTL must be positive")
	}
	if c.FollowUpInterval <= 0 {
		return fmt.Errorf("FOLLOW_UP_INTERVAL must be positive")
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var result []string
		for _, item := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
