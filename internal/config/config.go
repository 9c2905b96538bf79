package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	PostgresURI string
	MongoURI    string
	LogDBName   string
	SkipAuth    bool
	Environment string
	AppId       string
	StorageRoot string // Physical directory that holds every managed file
	MaxUploadMB int    // Upload size ceiling in MiB
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		PostgresURI: getEnv("POSTGRES_URI", "postgres://localhost:5432/go_drive?sslmode=disable"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		LogDBName:   getEnv("LOG_DB_NAME", "go-drive"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "go-drive"),
		StorageRoot: getEnv("STORAGE_ROOT", "./storage"),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 512),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Invalid value for %s, using default %d\n", key, fallback)
	}
	return fallback
}
