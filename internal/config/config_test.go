package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	require.Nil(t, CSV(""))
	require.Equal(t, []string{"kafka:9092", "kafka2:9092"}, CSV(" kafka:9092, ,kafka2:9092 "))
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("KAFKA_BROKERS", "a:1,b:2")

	cfg := Load()
	require.Equal(t, 8080, cfg.ServerPort)
	require.False(t, cfg.CookieSecure)
	require.Equal(t, []string{"a:1", "b:2"}, cfg.KafkaBrokers)
	require.Equal(t, "shop_events", cfg.KafkaTopic)
	require.Equal(t, "products", cfg.ESIndex)
}

func validConfig() Config {
	return Config{
		ServerPort:       8080,
		LogLevel:         "info",
		DatabaseURL:      "postgres://shop@localhost/shop",
		JWTAccessSecret:  []byte("access"),
		JWTRefreshSecret: []byte("refresh"),
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""
	cfg.JWTRefreshSecret = cfg.JWTAccessSecret
	cfg.AdminEmail = "admin@shop.test"
	cfg.LogLevel = "loud"
	cfg.ESURL = "localhost:9200"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	require.Contains(t, msg, "DATABASE_URL")
	require.Contains(t, msg, "must differ")
	require.Contains(t, msg, "ADMIN_PASSWORD")
	require.Contains(t, msg, "LOG_LEVEL")
	require.Contains(t, msg, "ES_URL")
}
