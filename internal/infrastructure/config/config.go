// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"flight-history-collector/internal/domain/entity"
)

// Store backends for the collected dataset
const (
	StoreCSV   = "csv"
	StoreMongo = "mongo"
)

// Config holds all configuration for the application
type Config struct {
	// Provider
	BaseURL  string `validate:"required,url"`
	APIURL   string `validate:"required,url"`
	Email    string `validate:"required_with=Password"`
	Password string `validate:"required_with=Email"`
	// Token is a subscription token used instead of logging in
	Token string

	// Inputs and output
	InputFile    string `validate:"required"`
	AirportsFile string
	OutputFile   string `validate:"required_if=Store csv"`
	// EarliestDate is YYYY-MM-DD or DD.MM.YYYY; empty collects full history
	EarliestDate string
	Store        string `validate:"oneof=csv mongo"`

	// MongoDB
	MongoURI      string `validate:"required_if=Store mongo"`
	MongoDB       string `validate:"required_if=Store mongo"`
	MongoUser     string
	MongoPassword string

	// Postgres reference tables; empty keeps them in memory
	PostgresDSN string

	// Fetching
	MaxRetries    int           `validate:"min=1"`
	RetrySleepMin time.Duration `validate:"min=0"`
	RetrySleepMax time.Duration `validate:"gtefield=RetrySleepMin"`
	TargetDelay   time.Duration `validate:"min=0"`
	PageDelay     time.Duration `validate:"min=0"`
	// VerifyAircraft checks the aircraft page for a not-found redirect first
	VerifyAircraft bool
	Workers       int           `validate:"min=1,max=32"`
	RatePerSecond float64       `validate:"min=0"`
	TargetTimeout time.Duration `validate:"min=0"`
	// AirlineCacheTTL of 0 scrapes the airline directory every run
	AirlineCacheTTL time.Duration `validate:"min=0"`

	// Observability
	MetricsAddr string
	LogLevel    string `validate:"oneof=debug info warn error"`
	LogFormat   string `validate:"oneof=json console"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		BaseURL:  getEnv("FR24_BASE_URL", "https://www.flightradar24.com"),
		APIURL:   getEnv("FR24_API_URL", "https://api.flightradar24.com"),
		Email:    getEnv("FR24_EMAIL", ""),
		Password: getEnv("FR24_PASSWORD", ""),
		Token:    getEnv("FR24_TOKEN", ""),

		InputFile:    getEnv("INPUT_FILE", "input.txt"),
		AirportsFile: getEnv("AIRPORTS_FILE", "airports.txt"),
		OutputFile:   getEnv("OUTPUT_FILE", "output.csv"),
		EarliestDate: getEnv("EARLIEST_DATE", ""),
		Store:        strings.ToLower(getEnv("STORE", StoreCSV)),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "flight_history"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		MaxRetries:      getEnvAsInt("MAX_RETRIES", 5),
		RetrySleepMin:   getEnvAsDuration("RETRY_SLEEP_MIN", 30*time.Second),
		RetrySleepMax:   getEnvAsDuration("RETRY_SLEEP_MAX", 60*time.Second),
		TargetDelay:     getEnvAsDuration("TARGET_DELAY", time.Second),
		PageDelay:       getEnvAsDuration("PAGE_DELAY", 3*time.Second),
		VerifyAircraft:  getEnvAsBool("VERIFY_AIRCRAFT", true),
		Workers:         getEnvAsInt("WORKERS", 1),
		RatePerSecond:   getEnvAsFloat("RATE_PER_SECOND", 0),
		TargetTimeout:   getEnvAsDuration("TARGET_TIMEOUT", 0),
		AirlineCacheTTL: getEnvAsDuration("AIRLINE_CACHE_TTL", 24*time.Hour),

		MetricsAddr: getEnv("METRICS_ADDR", ""),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:   strings.ToLower(getEnv("LOG_FORMAT", "json")),
	}

	return config, nil
}

// Validate checks field constraints and the earliest date
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.Earliest(); err != nil {
		return fmt.Errorf("invalid configuration: EARLIEST_DATE: %w", err)
	}
	return nil
}

// Earliest returns the parsed earliest date, nil when unset
func (c *Config) Earliest() (*entity.Date, error) {
	if c.EarliestDate == "" {
		return nil, nil
	}
	date, err := entity.ParseDate(c.EarliestDate)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("90s") or bare seconds ("90")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if seconds, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return time.Duration(seconds * float64(time.Second))
	}
	return defaultValue
}
