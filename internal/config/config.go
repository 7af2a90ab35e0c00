package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=desicargo port=5432 sslmode=disable"

type Config struct {
	HTTPPort    string `yaml:"http_port"`
	DatabaseDSN string `yaml:"database_dsn"`
	JWTSecret   string `yaml:"jwt_secret"`
	CORSOrigins string `yaml:"cors_allowed_origins"`
	LogLevel    string `yaml:"log_level"`
	AppBaseURL  string `yaml:"app_base_url"`

	Redis RedisConfig `yaml:"redis"`
	Kafka KafkaConfig `yaml:"kafka"`
	Photo PhotoConfig `yaml:"photo"`

	BookingCacheTTLSeconds int `yaml:"booking_cache_ttl_seconds"`
	SessionTTLHours        int `yaml:"session_ttl_hours"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	ConsumerGroup      string   `yaml:"consumer_group"`
}

type PhotoConfig struct {
	Bucket           string `yaml:"bucket"`
	Region           string `yaml:"region"`
	Endpoint         string `yaml:"endpoint"`
	URLExpiryMinutes int    `yaml:"url_expiry_minutes"`
}

func (c *Config) BookingCacheTTL() time.Duration {
	return time.Duration(c.BookingCacheTTLSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

func (c *Config) PhotoURLExpiry() time.Duration {
	return time.Duration(c.Photo.URLExpiryMinutes) * time.Minute
}

// KafkaEnabled is false when no brokers are configured; events are then
// applied in-process.
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

func defaults() *Config {
	return &Config{
		HTTPPort:    "8080",
		DatabaseDSN: defaultDSN,
		CORSOrigins: "http://localhost:5173",
		LogLevel:    "info",
		AppBaseURL:  "http://localhost:5173",
		Redis:       RedisConfig{Addr: "localhost:6379"},
		Kafka: KafkaConfig{
			BookingEventsTopic: "booking.events",
			ConsumerGroup:      "desicargo-tracking",
		},
		Photo: PhotoConfig{
			Region:           "ap-south-1",
			URLExpiryMinutes: 15,
		},
		BookingCacheTTLSeconds: 60,
		SessionTTLHours:        24,
	}
}

// LoadConfig reads a YAML overlay on top of the defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := defaults()
	if err := overlayFile(cfg, filename); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overlayFile(cfg *Config, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	return nil
}

// Load builds the config from defaults, the optional CONFIG_PATH file and
// the environment, in that order of precedence.
func Load() (*Config, error) {
	cfg := defaults()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := overlayFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.CORSOrigins = getEnv("CORS_ALLOWED_ORIGINS", cfg.CORSOrigins)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.AppBaseURL = getEnv("APP_BASE_URL", cfg.AppBaseURL)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Kafka.Brokers = splitList(brokers)
	}
	cfg.Kafka.BookingEventsTopic = getEnv("BOOKING_EVENTS_TOPIC", cfg.Kafka.BookingEventsTopic)
	cfg.Kafka.ConsumerGroup = getEnv("KAFKA_CONSUMER_GROUP", cfg.Kafka.ConsumerGroup)
	cfg.Photo.Bucket = getEnv("PHOTO_BUCKET", cfg.Photo.Bucket)
	cfg.Photo.Region = getEnv("PHOTO_REGION", cfg.Photo.Region)
	cfg.Photo.Endpoint = getEnv("PHOTO_ENDPOINT", cfg.Photo.Endpoint)

	var err error
	if cfg.BookingCacheTTLSeconds, err = getEnvInt("BOOKING_CACHE_TTL_SECONDS", cfg.BookingCacheTTLSeconds); err != nil {
		return nil, err
	}
	if cfg.SessionTTLHours, err = getEnvInt("SESSION_TTL_HOURS", cfg.SessionTTLHours); err != nil {
		return nil, err
	}
	if cfg.Photo.URLExpiryMinutes, err = getEnvInt("PHOTO_URL_EXPIRY_MINUTES", cfg.Photo.URLExpiryMinutes); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN uses the default value, set your own Postgres connection for production.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS uses the default value, set your own domain for production.")
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.BookingCacheTTLSeconds <= 0 {
		return fmt.Errorf("booking cache ttl must be positive")
	}
	if c.SessionTTLHours <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.Photo.URLExpiryMinutes <= 0 {
		return fmt.Errorf("photo url expiry must be positive")
	}
	return nil
}

// CORSOriginList splits the comma separated CORS setting.
func (c *Config) CORSOriginList() []string {
	return splitList(c.CORSOrigins)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
