package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "LOG_LEVEL", "AUDIT_CAPACITY", "KAFKA_BROKERS", "ALERT_SESSION_TTL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	require.Equal(t, ":9091", cfg.HTTPAddr)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel)
	require.Equal(t, 1000, cfg.AuditCapacity)
	require.Equal(t, 10, cfg.DefaultReorderPoint)
	require.Equal(t, 12*time.Hour, cfg.AlertSessionTTL)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, "admin.notifications", cfg.KafkaNotifyTopic)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AUDIT_CAPACITY", "50")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")

	cfg := Load()
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel)
	require.Equal(t, 50, cfg.AuditCapacity)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("AUDIT_CAPACITY", "-3")
	t.Setenv("ALERT_SESSION_TTL", "soon")
	t.Setenv("LOG_LEVEL", "loud")

	cfg := Load()
	require.Equal(t, 1000, cfg.AuditCapacity)
	require.Equal(t, 12*time.Hour, cfg.AlertSessionTTL)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel)
}
