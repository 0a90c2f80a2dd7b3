package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config collects everything previously read ad hoc from the environment.
// One instance is built in main and handed to each component explicitly.
type Config struct {
	Port    string
	GinMode string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string

	JWTSecret string

	PageSize int

	LogLevel string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string
}

// Load reads .env (если есть) and the environment into a Config.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost port=5432 user=postgres dbname=gamehub sslmode=disable"),
		RedisAddr:     getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change-me"),
		PageSize:      getEnvInt("PAGE_SIZE", 10),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASSWORD"),
		MailFrom:      getEnv("MAIL_FROM", "noreply@gamehub.local"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
