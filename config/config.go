package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var ErrMissingMongoService = errors.New("missing MongoDB server in the MONGODB_SERVICE variable")

type Config struct {
	MongoService  string
	MongoUsername string
	MongoPassword string
	MongoDatabase string

	SeedFile    string
	ServerPort  string
	Environment string

	// LegacyStatusCodes keeps 302 for a duplicate create and 201 for an update.
	LegacyStatusCodes bool

	RateLimitRPS   float64
	RateLimitBurst int

	LogFilePath   string
	LogHMACKey    string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	return &Config{
		MongoService:  os.Getenv("MONGODB_SERVICE"),
		MongoUsername: os.Getenv("MONGODB_USERNAME"),
		MongoPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "songs"),

		SeedFile:    getEnv("SEED_FILE", "data/songs.json"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		LegacyStatusCodes: getEnvAsBool("LEGACY_STATUS_CODES", true),

		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 100),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 200),

		LogFilePath:   getEnv("LOG_FILE_PATH", "/var/log/song-service/app.log"),
		LogHMACKey:    getEnv("LOG_HMAC_KEY", "default-hmac-key-change-in-production"),
		LogMaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 30),
	}
}

func (c *Config) Validate() error {
	if c.MongoService == "" {
		return ErrMissingMongoService
	}
	return nil
}

// MongoURI embeds the credentials only when both username and password are set.
func (c *Config) MongoURI() string {
	u := url.URL{Scheme: "mongodb", Host: c.MongoService}
	if c.MongoUsername != "" && c.MongoPassword != "" {
		u.User = url.UserPassword(c.MongoUsername, c.MongoPassword)
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
