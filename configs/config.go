package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Groq struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Config struct {
	Port            string
	StoreDriver     string
	StorePath       string
	PostgresURI     string
	TriggerBackend  string
	RedisURI        string
	UploadFolder    string
	ScheduledFolder string
	CookieDir       string
	ChromePath      string
	Headless        bool
	SweepInterval   time.Duration
	Retention       time.Duration
	Groq            Groq
	SecretKey       string
	MaxUploadMB     int
}

func LoadConfig() *Config {
	return &Config{
		Port:            getEnv("PORT", "3000"),
		StoreDriver:     getEnv("STORE_DRIVER", "json"),
		StorePath:       getEnv("STORE_PATH", "scheduled_posts.json"),
		PostgresURI:     getEnv("POSTGRES_URI", ""),
		TriggerBackend:  getEnv("TRIGGER_BACKEND", "memory"),
		RedisURI:        getEnv("REDIS_URI", "localhost:6379"),
		UploadFolder:    getEnv("UPLOAD_FOLDER", "uploads"),
		ScheduledFolder: getEnv("SCHEDULED_FOLDER", "scheduled_uploads"),
		CookieDir:       getEnv("COOKIE_DIR", "."),
		ChromePath:      getEnv("CHROME_PATH", ""),
		Headless:        getBool("HEADLESS", false),
		SweepInterval:   getDuration("SWEEP_INTERVAL", time.Minute),
		Retention:       getDuration("RETENTION", 24*time.Hour),
		Groq: Groq{
			APIKey:  getEnv("GROQ_API_KEY", ""),
			BaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:   getEnv("CAPTION_MODEL", "llama-3.3-70b-versatile"),
		},
		SecretKey:   getEnv("SECRET_KEY", ""),
		MaxUploadMB: getInt("MAX_UPLOAD_MB", 500),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("invalid boolean, using default", "key", key, "value", value)
		return defaultValue
	}
	return b
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		slog.Warn("invalid integer, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}
