package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionTTL time.Duration

	AllowedOrigins []string

	OTLPEndpoint string

	SeedDemo     bool
	DemoUsername string
	DemoPassword string
}

func Load() Config {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)
	dbURL := buildDBURL()

	return Config{
		Env:   env,
		Port:  port,
		DBURL: dbURL,

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_DAYS", 7)) * 24 * time.Hour,

		AllowedOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:5173")},

		OTLPEndpoint: getEnv("OTLP_ENDPOINT", ""),

		SeedDemo:     getEnv("SEED_DEMO", "") == "true",
		DemoUsername: getEnv("DEMO_USERNAME", "demo"),
		DemoPassword: getEnv("DEMO_PASSWORD", ""),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "inventrack")
	pass := getEnv("DB_PASSWORD", "inventrack")
	name := getEnv("DB_NAME", "inventrack")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
