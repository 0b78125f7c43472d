package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"leetstreak/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// LeetCode API configuration
	LeetCodeAPIURL       string
	APITimeout           time.Duration
	APIMaxRetries        uint64
	APIRequestsPerSecond float64
	SubmissionLimit      int

	// Check configuration
	CheckConcurrency int
	Timezone         string

	// NATS servers for mirroring domain events; empty disables mirroring
	NATSServers string

	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex
)

// LoadDotEnv loads a .env file into the process environment if one exists
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found, relying on environment variables")
	}
}

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// GetDatabaseURL combines the base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// Location returns the timezone day buckets and schedules use
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IsProduction reports whether the bot runs in production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func load() (*Config, error) {
	config := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		LeetCodeAPIURL:       getEnvWithDefault("LEETCODE_API_URL", "https://leetcode-api-pied.vercel.app"),
		APITimeout:           10 * time.Second,
		APIMaxRetries:        3,
		APIRequestsPerSecond: 5,
		SubmissionLimit:      20,

		CheckConcurrency: 4,
		Timezone:         getEnvWithDefault("TIMEZONE", "UTC"),

		NATSServers: os.Getenv("NATS_SERVERS"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if v := os.Getenv("API_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("API_TIMEOUT_SECONDS must be a positive integer, got %q", v)
		}
		config.APITimeout = time.Duration(seconds) * time.Second
	}
	if v := os.Getenv("API_MAX_RETRIES"); v != "" {
		retries, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("API_MAX_RETRIES must be a non-negative integer, got %q", v)
		}
		config.APIMaxRetries = retries
	}
	if v := os.Getenv("API_REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil || rps <= 0 {
			return nil, fmt.Errorf("API_REQUESTS_PER_SECOND must be positive, got %q", v)
		}
		config.APIRequestsPerSecond = rps
	}
	if v := os.Getenv("SUBMISSION_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return nil, fmt.Errorf("SUBMISSION_LIMIT must be a positive integer, got %q", v)
		}
		config.SubmissionLimit = limit
	}
	if v := os.Getenv("CHECK_CONCURRENCY"); v != "" {
		concurrency, err := strconv.Atoi(v)
		if err != nil || concurrency <= 0 {
			return nil, fmt.Errorf("CHECK_CONCURRENCY must be a positive integer, got %q", v)
		}
		config.CheckConcurrency = concurrency
	}

	if _, err := config.Location(); err != nil {
		return nil, err
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be blank when provided")
		}
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig clears the global config so the next Get reloads it
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:          "test",
		LeetCodeAPIURL:       "http://localhost",
		APITimeout:           time.Second,
		APIMaxRetries:        0,
		APIRequestsPerSecond: 100,
		SubmissionLimit:      20,
		CheckConcurrency:     2,
		Timezone:             "UTC",
		LogLevel:             "debug",
	}
}
