package config

import (
	"os"
	"strconv"
	"time"

	"eventro/internal/cache"
	"eventro/internal/database"
	"eventro/internal/external"
	"eventro/internal/mail"
	"eventro/internal/messaging"
	"eventro/internal/middleware"
	"eventro/internal/storage"
)

// Config содержит конфигурацию приложения
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration
	BaseURL        string

	Database      database.Config
	NATS          messaging.Config
	Cache         cache.Config
	Elasticsearch ElasticsearchConfig
	Functions     external.FunctionsConfig
	Mail          mail.Config
	Storage       storage.Config
	JWT           middleware.JWTConfig

	NotifyQueueSize  int
	ReminderInterval time.Duration
	ReminderLead     time.Duration
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8081"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,
		BaseURL:        getEnv("API_BASE_URL", "http://localhost:8081"),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "eventro"),
			Password:           getEnv("DB_PASSWORD", "eventro"),
			DBName:             getEnv("DB_NAME", "eventro"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		// пустой URL отключает NATS, уведомления только логируются
		NATS: messaging.Config{
			URL:       os.Getenv("NATS_URL"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "eventro"),
			ClientID:  getEnv("NATS_CLIENT_ID", "eventro-api"),
		},

		Cache: cache.Config{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("CACHE_TTL_SEC", 300)) * time.Second,
		},

		Elasticsearch: LoadElasticsearchConfig(),

		Functions: external.FunctionsConfig{
			BaseURL: os.Getenv("FUNCTIONS_BASE_URL"),
			APIKey:  os.Getenv("FUNCTIONS_API_KEY"),
			Timeout: time.Duration(getEnvInt("FUNCTIONS_TIMEOUT_SEC", 15)) * time.Second,
		},

		Mail: mail.Config{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", "Eventro <no-reply@eventro.local>"),
		},

		Storage: storage.Config{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "eventro"),
			UseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
			PublicURL: os.Getenv("MINIO_PUBLIC_URL"),
		},

		JWT: middleware.JWTConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			Issuer:   os.Getenv("JWT_ISSUER"),
			Audience: getEnv("JWT_AUDIENCE", "authenticated"),
		},

		NotifyQueueSize:  getEnvInt("NOTIFY_QUEUE_SIZE", 256),
		ReminderInterval: time.Duration(getEnvInt("REMINDER_INTERVAL_MIN", 15)) * time.Minute,
		ReminderLead:     time.Duration(getEnvInt("REMINDER_LEAD_HOURS", 24)) * time.Hour,
	}
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленное значение переменной окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
