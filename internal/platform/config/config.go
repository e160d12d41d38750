package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort string `yaml:"api_port"`
	AppEnv  string `yaml:"app_env"`

	SessionSecret []byte        `yaml:"-"`
	SessionTTL    time.Duration `yaml:"-"`

	DatabaseURL string `yaml:"database_url"`
	DBHost      string `yaml:"db_host"`
	DBPort      string `yaml:"db_port"`
	DBUser      string `yaml:"db_user"`
	DBPassword  string `yaml:"db_password"`
	DBName      string `yaml:"db_name"`
	DBSslMode   string `yaml:"db_sslmode"`
	DBConnStr   string `yaml:"-"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	RealtimeChannel       string `yaml:"realtime_channel"`
	RelayLockKey          string `yaml:"relay_lock_key"`
	RelayLockTTLSeconds   int    `yaml:"relay_lock_ttl_seconds"`
	RealtimeWebhookSecret string `yaml:"realtime_webhook_secret"`

	AuthRateLimitPerMinute int      `yaml:"auth_rate_limit_per_minute"`
	AuthRateLimitBurst     int      `yaml:"auth_rate_limit_burst"`
	CORSAllowedOrigins     []string `yaml:"cors_allowed_origins"`

	LogLevel       string `yaml:"log_level"`
	MetricsEnabled bool   `yaml:"metrics_enabled"`
}

// fileConfig mirrors the subset of keys that may be set from a YAML file.
// Secrets and durations come from the environment only.
type fileConfig struct {
	Config          `yaml:",inline"`
	SessionTTLHours int `yaml:"session_ttl_hours"`
}

var AppConfig *Config

// Load reads configuration from an optional YAML file, then .env, then the
// process environment. Later sources win.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment variables")
	}

	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var fc fileConfig
			fc.Config = *cfg
			fc.SessionTTLHours = int(cfg.SessionTTL / time.Hour)
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
			secret, ttl := cfg.SessionSecret, cfg.SessionTTL
			*cfg = fc.Config
			cfg.SessionSecret = secret
			cfg.SessionTTL = ttl
			if fc.SessionTTLHours > 0 {
				cfg.SessionTTL = time.Duration(fc.SessionTTLHours) * time.Hour
			}
		case os.IsNotExist(err):
			slog.Debug("config file not found, using environment", "path", path)
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.DatabaseURL != "" {
		cfg.DBConnStr = cfg.DatabaseURL
	} else {
		cfg.DBConnStr = "host=" + cfg.DBHost +
			" port=" + cfg.DBPort +
			" user=" + cfg.DBUser +
			" password=" + cfg.DBPassword +
			" dbname=" + cfg.DBName +
			" sslmode=" + cfg.DBSslMode
	}

	if cfg.IsProduction() && string(cfg.SessionSecret) == defaultSessionSecret {
		return nil, fmt.Errorf("config: SESSION_SECRET must be set in production")
	}

	AppConfig = cfg
	return cfg, nil
}

const defaultSessionSecret = "dev-session-secret"

func defaults() *Config {
	return &Config{
		APIPort:                "8080",
		AppEnv:                 "development",
		SessionSecret:          []byte(defaultSessionSecret),
		SessionTTL:             7 * 24 * time.Hour,
		DBHost:                 "localhost",
		DBPort:                 "5432",
		DBUser:                 "postgres",
		DBPassword:             "postgres",
		DBName:                 "hackathon_hub",
		DBSslMode:              "disable",
		RedisAddr:              "localhost:6379",
		RealtimeChannel:        "hackathon_hub:changes",
		RelayLockKey:           "hackathon_hub:relay_lock",
		RelayLockTTLSeconds:    30,
		AuthRateLimitPerMinute: 30,
		AuthRateLimitBurst:     10,
		LogLevel:               "info",
		MetricsEnabled:         true,
	}
}

func applyEnv(cfg *Config) {
	cfg.APIPort = getEnv("API_PORT", cfg.APIPort)
	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.SessionSecret = []byte(getEnv("SESSION_SECRET", string(cfg.SessionSecret)))
	cfg.SessionTTL = time.Duration(getEnvAsInt("SESSION_TTL_HOURS", int(cfg.SessionTTL/time.Hour))) * time.Hour

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSslMode = getEnv("DB_SSLMODE", cfg.DBSslMode)

	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getEnvAsInt("REDIS_DB", cfg.RedisDB)

	cfg.RealtimeChannel = getEnv("REALTIME_CHANNEL", cfg.RealtimeChannel)
	cfg.RelayLockKey = getEnv("RELAY_LOCK_KEY", cfg.RelayLockKey)
	cfg.RelayLockTTLSeconds = getEnvAsInt("RELAY_LOCK_TTL_SECONDS", cfg.RelayLockTTLSeconds)
	cfg.RealtimeWebhookSecret = getEnv("REALTIME_WEBHOOK_SECRET", cfg.RealtimeWebhookSecret)

	cfg.AuthRateLimitPerMinute = getEnvAsInt("AUTH_RATE_LIMIT_PER_MINUTE", cfg.AuthRateLimitPerMinute)
	cfg.AuthRateLimitBurst = getEnvAsInt("AUTH_RATE_LIMIT_BURST", cfg.AuthRateLimitBurst)
	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		cfg.CORSAllowedOrigins = splitList(origins)
	}

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.MetricsEnabled = getEnvAsBool("METRICS_ENABLED", cfg.MetricsEnabled)
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) RelayLockTTL() time.Duration {
	return time.Duration(c.RelayLockTTLSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
