package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values. Everything is read once at
// process start; there is no hot reload.
type Config struct {
	Env            string        // application environment (e.g. "dev", "prod")
	Port           string        // HTTP port to listen on
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	SessionSecret  string        // secret used to sign the session cookie
	SessionTTL     time.Duration // absolute session lifetime (default 24h)
	BcryptCost     int           // bcrypt cost for password hashing
	LogLevel       string        // zerolog level (debug, info, warn, error)
	DefaultStaffID uint64        // system staff id stamped on storefront rentals
	RabbitURL      string        // AMQP broker URL (optional; events disabled when empty)
	TemplateDir    string        // directory holding server-side templates
}

// Load reads configuration from environment variables. Required variables
// are enforced by must() and missing values cause the program to exit with a
// fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		SessionSecret:  must("SESSION_SECRET"),
		SessionTTL:     time.Duration(envInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		BcryptCost:     mustInt("BCRYPT_COST"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		DefaultStaffID: uint64(envInt("DEFAULT_STAFF_ID", 1)),
		RabbitURL:      os.Getenv("RABBITMQ_URL"),
		TemplateDir:    getenv("TEMPLATE_DIR", "web/templates"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// Shared env helpers reused by the redis, rate limit and cache config files.

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
