package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "UTC", c.Timezone)
	assert.Equal(t, 7*24*time.Hour, c.SessionTTL)
	assert.Equal(t, "postgres://:@localhost:5432/scheduler?sslmode=disable", c.Postgres.DSN())
	assert.Equal(t, "localhost:6379", c.Redis.Addr())
	assert.Equal(t, 30, c.Audit.HorizonDays)
	assert.Equal(t, 3, c.Audit.Workers)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"POSTGRES_USER":      "cal",
		"POSTGRES_PASSWORD":  "p@ss",
		"POSTGRES_HOST":      "db",
		"AMQP_USER":          "guest",
		"AMQP_PASSWORD":      "guest",
		"AMQP_HOST":          "mq",
		"SESSION_TTL":        "12h",
		"AUDIT_HORIZON_DAYS": "14",
		"TIMEZONE":           "",
	}
	lookup := func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}

	c := &Config{Timezone: "Europe/London"}
	require.NoError(t, c.applyEnv(lookup))
	c.Normalize()

	assert.Equal(t, "Europe/London", c.Timezone)
	assert.Equal(t, 12*time.Hour, c.SessionTTL)
	assert.Equal(t, 14, c.Audit.HorizonDays)
	assert.Equal(t, "postgres://cal:p%40ss@db:5432/scheduler?sslmode=disable", c.Postgres.DSN())
	assert.Equal(t, "amqp://guest:guest@mq:5672", c.AMQP.URL())
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	for name, value := range map[string]string{
		"SESSION_TTL":        "a week",
		"AUDIT_HORIZON_DAYS": "many",
	} {
		lookup := func(n string) (string, bool) {
			if n == name {
				return value, true
			}
			return "", false
		}
		assert.Error(t, (&Config{}).applyEnv(lookup), name)
	}
}

func TestLoad(t *testing.T) {
	for _, name := range []string{"HTTP_ADDR", "TIMEZONE", "REDIS_HOST", "AUDIT_CRON", "LOG_LEVEL"} {
		t.Setenv(name, "")
	}
	t.Setenv("LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":9090"
log_level: warn
timezone: Europe/Berlin
session_ttl: 1h
redis:
  host: cache
audit:
  cron: "0 * * * *"
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.HTTPAddr)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, time.Hour, c.SessionTTL)
	assert.Equal(t, "cache:6379", c.Redis.Addr())
	assert.Equal(t, "0 * * * *", c.Audit.Cron)

	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")

	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLocationInvalid(t *testing.T) {
	_, err := (&Config{Timezone: "Mars/Olympus"}).Location()
	assert.Error(t, err)
}
