// Package config загружает конфигурацию приложения из переменных окружения.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DBSSLmode определяет режим SSL-подключения к PostgreSQL.
type DBSSLmode string

const (
	// SSLDisable - SSL-шифрование отключено.
	SSLDisable DBSSLmode = "disable"
	// SSLRequire - SSL обязателен, но сертификат сервера не проверяется.
	SSLRequire DBSSLmode = "require"
	// SSLVerifyFull - SSL обязателен, сертификат сервера проверяется.
	SSLVerifyFull DBSSLmode = "verify-full"
)

// IsValid возвращает true, если значение является допустимым режимом SSL.
func (m DBSSLmode) IsValid() bool {
	switch m {
	case SSLDisable, SSLRequire, SSLVerifyFull:
		return true
	default:
		return false
	}
}

// Драйверы хранилища данных.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Бэкенды флага автораспределения.
const (
	SettingsPostgres = "postgres"
	SettingsRedis    = "redis"
	SettingsFile     = "file"
)

// Config - полная конфигурация сервиса.
type Config struct {
	Server           ServerConfig
	DB               DBConfig
	Telegram         TelegramConfig
	Storage          string
	Settings         string
	SettingsFile     string
	RedisURL         string
	LogLevel         string
	LogFormat        string
	MetricsNamespace string
	SweepInterval    time.Duration
	DashboardLimit   int
}

// ServerConfig - конфигурация HTTP-сервера.
type ServerConfig struct {
	Addr string
}

// DBConfig - набор параметров для подключения к базе данных.
type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	SSLmode  DBSSLmode
	Port     int
}

// TelegramConfig - параметры бота. Пустой токен отключает бота.
type TelegramConfig struct {
	Token          string
	PartnerURL     string
	Timeout        time.Duration
	PollingTimeout time.Duration
}

// Load читает и проверяет всю конфигурацию.
func Load() (Config, error) {
	db, err := LoadDB()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server:           LoadServer(),
		DB:               db,
		Storage:          strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		Settings:         strings.ToLower(getEnv("SETTINGS_BACKEND", SettingsPostgres)),
		SettingsFile:     getEnv("SETTINGS_FILE", "settings.yaml"),
		RedisURL:         getEnv("REDIS_URL", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "lead_assigner"),
		SweepInterval:    durationOr("SWEEP_INTERVAL", time.Minute),
		DashboardLimit:   intOr("DASHBOARD_LIMIT", 100),
		Telegram: TelegramConfig{
			Token:          strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
			PartnerURL:     getEnv("PARTNER_URL", ""),
			Timeout:        durationOr("TELEGRAM_TIMEOUT", 10*time.Second),
			PollingTimeout: durationOr("TELEGRAM_POLLING_TIMEOUT", 25*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var problems []string

	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		problems = append(problems, fmt.Sprintf("STORAGE_DRIVER=%q", c.Storage))
	}

	switch c.Settings {
	case SettingsPostgres:
		if c.Storage != StoragePostgres {
			problems = append(problems, "SETTINGS_BACKEND=postgres requires STORAGE_DRIVER=postgres")
		}
	case SettingsRedis:
		if c.RedisURL == "" {
			problems = append(problems, "SETTINGS_BACKEND=redis requires REDIS_URL")
		}
	case SettingsFile:
		if c.SettingsFile == "" {
			problems = append(problems, "SETTINGS_BACKEND=file requires SETTINGS_FILE")
		}
	default:
		problems = append(problems, fmt.Sprintf("SETTINGS_BACKEND=%q", c.Settings))
	}

	if c.SweepInterval <= 0 {
		problems = append(problems, "SWEEP_INTERVAL must be positive")
	}
	if c.DashboardLimit <= 0 {
		problems = append(problems, "DASHBOARD_LIMIT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// LoadServer загружает конфигурацию сервера из окружения.
func LoadServer() ServerConfig {
	return ServerConfig{
		Addr: getEnv("SERVER_ADDR", ":8080"),
	}
}

// LoadDB загружает конфигурацию бд из окружения и возвращает DBConfig.
// Некорректный DB_SSLMODE заменяется на disable.
func LoadDB() (DBConfig, error) {
	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return DBConfig{}, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	mode := DBSSLmode(getEnv("DB_SSLMODE", string(SSLDisable)))
	if !mode.IsValid() {
		mode = SSLDisable
	}

	return DBConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     port,
		User:     getEnv("DB_USER", "leads"),
		Password: getEnv("DB_PASSWORD", "leads"),
		Name:     getEnv("DB_NAME", "leads"),
		SSLmode:  mode,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}

func intOr(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}
