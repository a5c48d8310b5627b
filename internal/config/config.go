package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Gemini   GeminiConfig
	GitHub   GitHubConfig
	Qdrant   QdrantConfig
	Pipeline PipelineConfig
}

type ServerConfig struct {
	Port          string
	Env           string
	MaxUploadSize int64
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type GeminiConfig struct {
	APIKey string
}

type GitHubConfig struct {
	Token string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type PipelineConfig struct {
	InferenceTimeout time.Duration
	EnrichTimeout    time.Duration
	PersistTimeout   time.Duration
	EmbedConcurrency int
	RetryMaxAttempts int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "3000"),
			Env:           getEnv("ENV", "development"),
			MaxUploadSize: getEnvAsInt64("MAX_UPLOAD_SIZE", 10485760),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "career_audit"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		GitHub: GitHubConfig{
			Token: getEnv("GITHUB_TOKEN", ""),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", "http://localhost:6333"),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "profile_embeddings"),
		},
		Pipeline: PipelineConfig{
			InferenceTimeout: getEnvAsDuration("INFERENCE_TIMEOUT", "60s"),
			EnrichTimeout:    getEnvAsDuration("ENRICH_TIMEOUT", "15s"),
			PersistTimeout:   getEnvAsDuration("PERSIST_TIMEOUT", "10s"),
			EmbedConcurrency: getEnvAsInt("EMBED_CONCURRENCY", 5),
			RetryMaxAttempts: getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
