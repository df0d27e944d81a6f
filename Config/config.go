package Config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database holds the store connection settings
type Database struct {
	Driver string
	DSN    string
	// Log SQL statements at info level
	LogSQL bool
}

// Config is the process configuration, read from .env and the environment
type Config struct {
	Port            string
	Database        Database
	JWTSecret       string
	JWTTTL          time.Duration
	LogLevel        string
	LogFormat       string
	LogDir          string
	SeedCreditTiers bool
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		Port: "8000",
		Database: Database{
			Driver: "sqlite",
			DSN:    "matirbank.db",
		},
		JWTSecret:       "secret",
		JWTTTL:          24 * time.Hour,
		LogLevel:        "info",
		LogFormat:       "json",
		LogDir:          "logs",
		SeedCreditTiers: true,
	}
}

// Load reads envFile (if it exists) and then the process environment.
// A missing env file is not an error; a malformed one is.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		c.Database.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("DB_LOG_SQL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DB_LOG_SQL: %w", err)
		}
		c.Database.LogSQL = b
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_TTL: %w", err)
		}
		c.JWTTTL = d
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		c.LogDir = v
	}
	if v := os.Getenv("SEED_CREDIT_TIERS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEED_CREDIT_TIERS: %w", err)
		}
		c.SeedCreditTiers = b
	}
	return nil
}

// Validate reports settings that cannot work
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (use sqlite or mysql)", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("DB_DSN is empty")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	// The built-in secret is only good enough for a local SQLite file
	if c.Database.Driver == "mysql" && (c.JWTSecret == "" || c.JWTSecret == Default().JWTSecret) {
		return errors.New("JWT_SECRET must be set to a non-default value when DB_DRIVER is mysql")
	}
	return nil
}

// RequestLogPath is where the request log middleware appends its lines
func (c Config) RequestLogPath() string {
	if c.LogDir == "" {
		return ""
	}
	return strings.TrimRight(c.LogDir, "/") + "/requests.log"
}
