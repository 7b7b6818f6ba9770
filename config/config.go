package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

// DefaultSegments are the A–Z subpages of the Wikipedia bridge list.
var DefaultSegments = []string{
	"A", "B", "CD", "E", "F", "G", "H", "IJ", "K", "L",
	"M", "N", "O", "PQ", "R", "S", "T", "UV", "W", "XYZ",
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	WikiBaseURL string
	Segments    []string
	UserAgent   string
	FetchMode   string
	ChromeBin   string

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int
	HTTPTimeoutSec int

	DataDir           string
	RenovationFile    string
	DamageFile        string
	UnmatchedCSVPath  string
	ValidationCSVPath string

	DryRun           bool
	SkipGeocode      bool
	StrictValidation bool
	LogLevel         string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		WikiBaseURL: strings.TrimRight(getEnv("WIKI_BASE_URL",
			"https://de.wikipedia.org/wiki/Liste_der_Br%C3%BCcken_in_Berlin"), "/"),
		Segments:  getEnvList("WIKI_SEGMENTS", DefaultSegments),
		UserAgent: getEnv("USER_AGENT", "BridgeSafetyCoordBot/1.0 (Berlin bridge data project)"),
		FetchMode: strings.ToLower(getEnv("FETCH_MODE", FetchModeHTTP)),
		ChromeBin: getEnv("CHROME_BIN", ""),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 4),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 500),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		HTTPTimeoutSec: getEnvInt("HTTP_TIMEOUT_SEC", 60),

		DataDir:           getEnv("DATA_DIR", "."),
		RenovationFile:    getEnv("RENOVATION_FILE", "bruecken.json"),
		DamageFile:        getEnv("DAMAGE_FILE", "bruecken_tagesspiegel.json"),
		UnmatchedCSVPath:  getEnv("UNMATCHED_CSV_PATH", "unmatched_bridges.csv"),
		ValidationCSVPath: getEnv("VALIDATION_CSV_PATH", ""),

		DryRun:           getEnvBool("DRY_RUN", false),
		SkipGeocode:      getEnvBool("SKIP_GEOCODE", false),
		StrictValidation: getEnvBool("STRICT_VALIDATION", false),
		LogLevel:         getEnv("LOG_LEVEL", "info"),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "bridges"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "bridges"),
		PostgresDB:       getEnv("POSTGRES_DB", "bridges_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// Validate reports the first configuration value that cannot work.
func (c *Config) Validate() error {
	if c.WikiBaseURL == "" {
		return fmt.Errorf("config: WIKI_BASE_URL must not be empty")
	}
	if len(c.Segments) == 0 {
		return fmt.Errorf("config: WIKI_SEGMENTS must name at least one segment")
	}
	if c.FetchMode != FetchModeHTTP && c.FetchMode != FetchModeBrowser {
		return fmt.Errorf("config: FETCH_MODE %q is not one of %q, %q",
			c.FetchMode, FetchModeHTTP, FetchModeBrowser)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("config: MAX_CONCURRENCY must be >= 1, got %d", c.MaxConcurrency)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("config: MAX_RETRIES must be >= 1, got %d", c.MaxRetries)
	}
	if c.RateLimitMs < 0 || c.HTTPTimeoutSec < 1 {
		return fmt.Errorf("config: RATE_LIMIT_MS must be >= 0 and HTTP_TIMEOUT_SEC >= 1")
	}
	return nil
}

// RenovationPath is the renovation dataset path inside DataDir.
func (c *Config) RenovationPath() string {
	return c.dataPath(c.RenovationFile)
}

// DamagePath is the damage dataset path inside DataDir.
func (c *Config) DamagePath() string {
	return c.dataPath(c.DamageFile)
}

func (c *Config) dataPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
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
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return append([]string(nil), fallback...)
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
