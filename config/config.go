package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	JWTSecret  string
	JWTExpiry  int // hours

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LoginRateLimit int      // attempts per minute per client IP
	TrustedProxies []string // IPs or CIDRs allowed to set X-Forwarded-For
	TracingEnabled bool

	AdminEmail    string
	AdminPassword string

	School SchoolProfile
}

// SchoolProfile is printed in the header of generated reports.
type SchoolProfile struct {
	Name     string
	Address  string
	Phone    string
	WhatsApp string
	Email    string
	Web      string
}

var placeholders = []string{
	"YOUR_DATABASE_HOST",
	"YOUR_DATABASE_PASSWORD",
	"your-secret-key",
	"your-secret-key-change-in-production",
	"changeme",
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️ Could not load .env file: %v", err)
	}

	return &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnvAsInt("DB_PORT", 5432),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", ""),
		DBName:         getEnv("DB_NAME", "school_admin"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		JWTExpiry:      getEnvAsInt("JWT_EXPIRY", 24),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		LoginRateLimit: getEnvAsInt("LOGIN_RATE_LIMIT", 10),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),
		TracingEnabled: getEnvAsBool("TRACING_ENABLED", false),
		AdminEmail:     getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
		School: SchoolProfile{
			Name:     getEnv("SCHOOL_NAME", "Amerikan Kültür Yabancı Dil Kursu"),
			Address:  getEnv("SCHOOL_ADDRESS", ""),
			Phone:    getEnv("SCHOOL_PHONE", ""),
			WhatsApp: getEnv("SCHOOL_WHATSAPP", ""),
			Email:    getEnv("SCHOOL_EMAIL", ""),
			Web:      getEnv("SCHOOL_WEB", ""),
		},
	}
}

// Validate reports every missing or placeholder backend setting at once.
func (c *Config) Validate() error {
	var errs []error

	required := []struct {
		key   string
		value string
	}{
		{"DB_HOST", c.DBHost},
		{"DB_USER", c.DBUser},
		{"DB_NAME", c.DBName},
		{"JWT_SECRET", c.JWTSecret},
		{"REDIS_ADDR", c.RedisAddr},
	}
	for _, r := range required {
		switch {
		case strings.TrimSpace(r.value) == "":
			errs = append(errs, fmt.Errorf("%s is not set", r.key))
		case isPlaceholder(r.value):
			errs = append(errs, fmt.Errorf("%s still has a placeholder value", r.key))
		}
	}
	if isPlaceholder(c.DBPassword) {
		errs = append(errs, errors.New("DB_PASSWORD still has a placeholder value"))
	}
	if c.DBPort <= 0 || c.DBPort > 65535 {
		errs = append(errs, fmt.Errorf("DB_PORT %d is out of range", c.DBPort))
	}
	if c.JWTExpiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY must be a positive number of hours"))
	}

	return errors.Join(errs...)
}

// DSN builds the lib/pq connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func isPlaceholder(value string) bool {
	for _, p := range placeholders {
		if strings.EqualFold(value, p) {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var values []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
