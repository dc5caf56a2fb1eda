package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultMongoDB    = "squid"
	defaultPort       = "8080"
	defaultSessionTTL = 30 * time.Minute
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	redisURL := os.Getenv("REDIS_URL")
	mongoURI := os.Getenv("MONGO_URI")
	mongoDB := os.Getenv("MONGO_DB")
	jwtSecret := os.Getenv("JWT_SECRET")
	environment := os.Getenv("ENVIRONMENT")
	port := os.Getenv("PORT")

	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}

	if mongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if mongoDB == "" {
		mongoDB = defaultMongoDB
	}

	if environment == "" {
		environment = "development"
	}

	if port == "" {
		port = defaultPort
	}

	sessionTTL := defaultSessionTTL

	if raw := os.Getenv("SESSION_TTL_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("SESSION_TTL_MINUTES must be a positive integer, got %q", raw)
		}

		sessionTTL = time.Duration(minutes) * time.Minute
	}

	return &Config{
		RedisURL:    redisURL,
		MongoURI:    mongoURI,
		MongoDB:     mongoDB,
		JWTSecret:   jwtSecret,
		Environment: environment,
		Port:        port,
		SessionTTL:  sessionTTL,
	}, nil
}
