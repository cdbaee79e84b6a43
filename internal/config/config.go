package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config параметры процесса, собранные из окружения и .env
type Config struct {
	HTTPAddr            string
	LogLevel            slog.Level
	LogFormat           string
	SeedFile            string
	AuditCapacity       int
	DefaultReorderPoint int
	AlertSessionTTL     time.Duration
	AlertRecipient      string
	KafkaBrokers        []string
	KafkaNotifyTopic    string
	ShutdownTimeout     time.Duration
}

// Load читает .env (если есть) и переменные окружения
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			slog.Warn("error loading .env file", "err", err)
		}
	}

	return &Config{
		HTTPAddr:            getEnv("HTTP_ADDR", ":9091"),
		LogLevel:            parseLevel(getEnv("LOG_LEVEL", "info")),
		LogFormat:           getEnv("LOG_FORMAT", "text"),
		SeedFile:            getEnv("SEED_FILE", ""),
		AuditCapacity:       getInt("AUDIT_CAPACITY", 1000),
		DefaultReorderPoint: getInt("DEFAULT_REORDER_POINT", 10),
		AlertSessionTTL:     getDuration("ALERT_SESSION_TTL", 12*time.Hour),
		AlertRecipient:      getEnv("ALERT_EMAIL", "admin@veda.com"),
		KafkaBrokers:        splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaNotifyTopic:    getEnv("KAFKA_NOTIFY_TOPIC", "admin.notifications"),
		ShutdownTimeout:     getDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
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
