package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds settings for the dashboard API server.
type AppConfig struct {
	Port string

	MongoURI string
	MongoDB  string

	// WorkerSecret gates the ingestion endpoint. Distinct from user auth.
	WorkerSecret string

	JWTSecret string
	// JWTTTL is the lifetime of issued access tokens. Zero disables the
	// expiry claim entirely.
	JWTTTL time.Duration

	// Default admin account created at startup when absent.
	AdminEmail    string
	AdminPassword string
	AdminName     string

	// Language-model provider used for weather insights.
	AIAPIKey string
	AIModel  string
	AIAPIURL string

	HTTPTimeout time.Duration
}

// Load reads server configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.MongoURI = os.Getenv("MONGO_URI")
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	cfg.MongoDB = getenvDefault("MONGO_DB", "weather")

	cfg.WorkerSecret = os.Getenv("WORKER_SECRET")

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	ttl, err := getenvDuration("JWT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.JWTTTL = ttl

	cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.AdminName = getenvDefault("ADMIN_NAME", "Administrator")

	cfg.AIAPIKey = os.Getenv("DS_API_KEY")
	cfg.AIModel = getenvDefault("DS_MODEL", "deepseek-chat")
	cfg.AIAPIURL = getenvDefault("DS_API_URL", "https://api.deepseek.com/chat/completions")

	timeout, err := getenvDuration("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

// CollectorConfig holds settings for the periodic Open-Meteo collector.
type CollectorConfig struct {
	RabbitURL   string
	RabbitQueue string

	OpenMeteoURL string
	Lat          float64
	Lon          float64

	FetchInterval time.Duration
	HTTPTimeout   time.Duration
}

// LoadCollector reads collector configuration from environment.
func LoadCollector() (*CollectorConfig, error) {
	_ = godotenv.Load()

	cfg := &CollectorConfig{}

	cfg.RabbitURL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required")
	}
	cfg.RabbitQueue = getenvDefault("RABBITMQ_QUEUE", "weather_logs")

	cfg.OpenMeteoURL = getenvDefault("OPEN_METEO_URL", "https://api.open-meteo.com/v1/forecast")

	lat, err := getenvFloat("LAT")
	if err != nil {
		return nil, err
	}
	lon, err := getenvFloat("LON")
	if err != nil {
		return nil, err
	}
	cfg.Lat = lat
	cfg.Lon = lon

	interval, err := getenvDuration("FETCH_INTERVAL", 15*time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.FetchInterval = interval

	timeout, err := getenvDuration("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

// WorkerConfig holds settings for the queue-to-backend ingest worker.
type WorkerConfig struct {
	RabbitURL   string
	RabbitQueue string

	// BackendURL is the full URL of the ingestion endpoint.
	BackendURL   string
	WorkerSecret string

	HTTPTimeout time.Duration
}

// LoadWorker reads ingest-worker configuration from environment.
func LoadWorker() (*WorkerConfig, error) {
	_ = godotenv.Load()

	cfg := &WorkerConfig{}

	cfg.RabbitURL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required")
	}
	cfg.RabbitQueue = getenvDefault("RABBITMQ_QUEUE", "weather_logs")

	cfg.BackendURL = os.Getenv("BACKEND_INTERNAL_URL")
	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("BACKEND_INTERNAL_URL is required")
	}

	cfg.WorkerSecret = os.Getenv("WORKER_SECRET")
	if cfg.WorkerSecret == "" {
		return nil, fmt.Errorf("WORKER_SECRET is required")
	}

	timeout, err := getenvDuration("HTTP_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
