package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency         int
	RateLimitMs            int
	MaxRetries             int
	ListingsPerSearch      int
	TrendListingsPerSearch int

	ScoringWorkers int
	TopN           int

	OutputDir    string
	OutputPrefix string
	ChromeBin    string
	Debug        bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return fromEnv()
}

// LoadFile reads the named env file instead of ./.env. A missing file is not
// an error; values then come from the process environment.
func LoadFile(path string) *Config {
	if err := godotenv.Load(path); err != nil {
		log.Printf("[config] Could not read %s, falling back to system env vars", path)
	}
	return fromEnv()
}

func fromEnv() *Config {
	return &Config{
		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "research"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "research123"),
		PostgresDB:       getEnv("POSTGRES_DB", "market_research"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency:         getEnvInt("MAX_CONCURRENCY", 2),
		RateLimitMs:            getEnvInt("RATE_LIMIT_MS", 3000),
		MaxRetries:             getEnvInt("MAX_RETRIES", 3),
		ListingsPerSearch:      getEnvInt("LISTINGS_PER_SEARCH", 20),
		TrendListingsPerSearch: getEnvInt("TREND_LISTINGS_PER_SEARCH", 15),

		ScoringWorkers: getEnvInt("SCORING_WORKERS", 4),
		TopN:           getEnvInt("TOP_N", 10),

		OutputDir:    getEnv("OUTPUT_DIR", "./output"),
		OutputPrefix: getEnv("OUTPUT_PREFIX", "ebay_market_research"),
		ChromeBin:    getEnv("CHROME_BIN", ""),
		Debug:        getEnvBool("LOG_DEBUG", false),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
