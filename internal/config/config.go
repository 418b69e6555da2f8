package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	SessionSecret string
	GinMode       string
	ServerAddr    string

	// SessionTTL is the lifetime of a default session, RememberTTL the
	// lifetime of a "remember me" session. SessionTTL is always kept
	// strictly below RememberTTL.
	SessionTTL  time.Duration
	RememberTTL time.Duration
}

func Load() *Config {
	cfg := &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "kbuser"),
		DBPassword:    getEnv("DB_PASSWORD", "kbpassword"),
		DBName:        getEnv("DB_NAME", "knowledge_base"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		SessionTTL:    getEnvHours("SESSION_TTL_HOURS", 24),
		RememberTTL:   getEnvHours("REMEMBER_TTL_HOURS", 720),
	}

	if cfg.SessionTTL >= cfg.RememberTTL {
		log.Printf("SESSION_TTL_HOURS must be below REMEMBER_TTL_HOURS, falling back to 24h/720h")
		cfg.SessionTTL = 24 * time.Hour
		cfg.RememberTTL = 720 * time.Hour
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvHours(key string, defaultHours int) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(defaultHours) * time.Hour
	}
	hours, err := strconv.Atoi(value)
	if err != nil || hours <= 0 {
		log.Printf("Invalid %s=%q, using %dh", key, value, defaultHours)
		return time.Duration(defaultHours) * time.Hour
	}
	return time.Duration(hours) * time.Hour
}
