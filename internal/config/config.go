package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Security SecurityConfig
}

type ServerConfig struct {
	Port int
}

// DatabaseConfig configures the optional analytics database. URL wins
// over the individual fields when set; an empty URL and empty Host mean
// "run without a database".
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// Enabled reports whether any database configuration is present.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

// KafkaConfig configures the optional analytics pipeline; empty Brokers
// disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Enabled reports whether a broker list is configured.
func (c KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

type SecurityConfig struct {
	AllowedOrigins []string
	RequestsPerSec float64
	Burst          float64
}

func LoadConfig() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "connect4"),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_TOPIC", "game-events"),
			GroupID: getEnv("KAFKA_GROUP_ID", "analytics-group"),
		},
		Security: SecurityConfig{
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS"),
			RequestsPerSec: getEnvFloat("RATE_LIMIT_RPS", 20),
			Burst:          getEnvFloat("RATE_LIMIT_BURST", 40),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
