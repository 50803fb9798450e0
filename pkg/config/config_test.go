package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Sync.LockTimeout)
	assert.Equal(t, time.Duration(0), cfg.Sync.StatementTimeout)
	assert.Equal(t, 500, cfg.Sync.MaxBatch)
	assert.Equal(t, time.Duration(0), cfg.Sync.MaxEventAge)
	assert.Equal(t, 3, cfg.Sync.MaxRetries)
	assert.Equal(t, "", cfg.Redis.URL)
	assert.Equal(t, "none", cfg.Telemetry.Exporter)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.DB.PreferIPv4)
	assert.Equal(t, "Punto de Venta", cfg.App.StoreName)
}

func TestFromViper_Valores(t *testing.T) {
	v := viper.New()
	v.Set("SYNC_LOCK_TIMEOUT", "250ms")
	v.Set("SYNC_MAX_EVENT_AGE", "24h")
	v.Set("SYNC_STATEMENT_TIMEOUT", "3000")
	v.Set("SYNC_MAX_BATCH", "50")
	v.Set("OTEL_EXPORTER", "STDOUT")
	v.Set("DB_MAX_CONNS", 25)
	v.Set("DB_PREFER_IPV4", "true")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Sync.LockTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Sync.MaxEventAge)
	assert.Equal(t, 3*time.Second, cfg.Sync.StatementTimeout)
	assert.Equal(t, 50, cfg.Sync.MaxBatch)
	assert.Equal(t, "stdout", cfg.Telemetry.Exporter)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.True(t, cfg.DB.PreferIPv4)
}

func TestFromViper_Invalidos(t *testing.T) {
	v := viper.New()
	v.Set("SYNC_LOCK_TIMEOUT", "mucho")
	_, err := fromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("OTEL_EXPORTER", "jaeger")
	_, err = fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss:w/rd", DBName: "ventas", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%3Aw%2Frd@db:5432/ventas?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
