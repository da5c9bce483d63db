package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Host    string `mapstructure:"HOST"`
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis (optional; empty disables the history cache)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Embedding Service (OpenAI compatible)
	EmbeddingAPIKey    string `mapstructure:"EMBEDDING_API_KEY"`
	EmbeddingBaseURL   string `mapstructure:"EMBEDDING_BASE_URL"`
	EmbeddingModel     string `mapstructure:"EMBEDDING_MODEL"`
	EmbeddingDimension int    `mapstructure:"EMBEDDING_DIMENSION"`

	// LLM
	LLMProvider    string  `mapstructure:"LLM_PROVIDER"`
	LLMAPIKey      string  `mapstructure:"LLM_API_KEY"`
	LLMModel       string  `mapstructure:"LLM_MODEL"`
	LLMBaseURL     string  `mapstructure:"LLM_BASE_URL"`
	LLMTemperature float32 `mapstructure:"LLM_TEMPERATURE"`

	// Retrieval tuning
	MinChunks           int     `mapstructure:"RAG_MIN_CHUNKS"`
	MaxChunks           int     `mapstructure:"RAG_MAX_CHUNKS"`
	SimilarityThreshold float64 `mapstructure:"RAG_SIMILARITY_THRESHOLD"`
	MaxMessages         int     `mapstructure:"RAG_MAX_MESSAGES"`

	// Chunking strategy
	ChunkSize    int `mapstructure:"CHUNK_SIZE"`
	ChunkOverlap int `mapstructure:"CHUNK_OVERLAP"`
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "8088")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("DATABASE_URL", "postgres://localhost:5432/tgo_tubechat?sslmode=disable")
	viper.SetDefault("EMBEDDING_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("EMBEDDING_MODEL", "text-embedding-3-small")
	viper.SetDefault("EMBEDDING_DIMENSION", 768)
	viper.SetDefault("LLM_PROVIDER", "openai")
	viper.SetDefault("LLM_MODEL", "gpt-4o-mini")
	viper.SetDefault("LLM_TEMPERATURE", 0.7)
	viper.SetDefault("RAG_MIN_CHUNKS", 5)
	viper.SetDefault("RAG_MAX_CHUNKS", 20)
	viper.SetDefault("RAG_SIMILARITY_THRESHOLD", 0.4)
	viper.SetDefault("RAG_MAX_MESSAGES", 50)
	viper.SetDefault("CHUNK_SIZE", 1000)
	viper.SetDefault("CHUNK_OVERLAP", 200)

	// Try to read .env file (optional)
	_ = viper.ReadInConfig()

	// Environment variables win over file values
	for _, key := range []string{
		"HOST", "PORT", "GIN_MODE", "DATABASE_URL", "REDIS_URL",
		"EMBEDDING_API_KEY", "EMBEDDING_BASE_URL", "EMBEDDING_MODEL", "EMBEDDING_DIMENSION",
		"LLM_PROVIDER", "LLM_API_KEY", "LLM_MODEL", "LLM_BASE_URL", "LLM_TEMPERATURE",
		"RAG_MIN_CHUNKS", "RAG_MAX_CHUNKS", "RAG_SIMILARITY_THRESHOLD", "RAG_MAX_MESSAGES",
		"CHUNK_SIZE", "CHUNK_OVERLAP",
	} {
		if val := os.Getenv(key); val != "" {
			viper.Set(key, val)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.GinMode) == "debug"
}
