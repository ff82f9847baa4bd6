// Package config loads the service configuration from an optional YAML
// file and the environment. Environment variables win over the file.
package config

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type PostgresConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	DB       string `yaml:"db"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN builds the pgx connection string.
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DB,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

type AMQPConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
}

func (c AMQPConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", c.User, c.Password, c.Host, c.Port)
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type AuditConfig struct {
	// Cron is the schedule of the background re-audit, in robfig/cron
	// standard five field syntax.
	Cron        string `yaml:"cron"`
	HorizonDays int    `yaml:"horizon_days"`
	Workers     int    `yaml:"workers"`
}

type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	LogLevel string `yaml:"log_level"`

	// Timezone is the IANA zone "today" is judged in.
	Timezone string `yaml:"timezone"`

	SessionTTL time.Duration `yaml:"session_ttl"`

	Postgres PostgresConfig `yaml:"postgres"`
	AMQP     AMQPConfig     `yaml:"amqp"`
	Redis    RedisConfig    `yaml:"redis"`
	Audit    AuditConfig    `yaml:"audit"`
}

func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 7 * 24 * time.Hour
	}

	if c.Postgres.Host == "" {
		c.Postgres.Host = "localhost"
	}
	if c.Postgres.Port == "" {
		c.Postgres.Port = "5432"
	}
	if c.Postgres.DB == "" {
		c.Postgres.DB = "scheduler"
	}
	if c.Postgres.SSLMode == "" {
		c.Postgres.SSLMode = "disable"
	}

	if c.AMQP.Host == "" {
		c.AMQP.Host = "localhost"
	}
	if c.AMQP.Port == "" {
		c.AMQP.Port = "5672"
	}

	if c.Redis.Host == "" {
		c.Redis.Host = "localhost"
	}
	if c.Redis.Port == "" {
		c.Redis.Port = "6379"
	}

	if c.Audit.Cron == "" {
		c.Audit.Cron = "*/30 * * * *"
	}
	if c.Audit.HorizonDays <= 0 {
		c.Audit.HorizonDays = 30
	}
	if c.Audit.Workers <= 0 {
		c.Audit.Workers = 3
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid timezone %q", c.Timezone)
	}
	return loc, nil
}

// Load reads .env into the environment when present, then the YAML file at
// path when it exists, then applies environment overrides and defaults. An
// empty path skips the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "error reading .env")
	}

	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "error reading config %s", path)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(err, "error parsing config %s", path)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.Normalize()

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"HTTP_ADDR":         &c.HTTPAddr,
		"LOG_LEVEL":         &c.LogLevel,
		"TIMEZONE":          &c.Timezone,
		"POSTGRES_USER":     &c.Postgres.User,
		"POSTGRES_PASSWORD": &c.Postgres.Password,
		"POSTGRES_HOST":     &c.Postgres.Host,
		"POSTGRES_PORT":     &c.Postgres.Port,
		"POSTGRES_DB":       &c.Postgres.DB,
		"POSTGRES_SSLMODE":  &c.Postgres.SSLMode,
		"AMQP_USER":         &c.AMQP.User,
		"AMQP_PASSWORD":     &c.AMQP.Password,
		"AMQP_HOST":         &c.AMQP.Host,
		"AMQP_PORT":         &c.AMQP.Port,
		"REDIS_HOST":        &c.Redis.Host,
		"REDIS_PORT":        &c.Redis.Port,
		"REDIS_PASSWORD":    &c.Redis.Password,
		"AUDIT_CRON":        &c.Audit.Cron,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"REDIS_DB":           &c.Redis.DB,
		"AUDIT_HORIZON_DAYS": &c.Audit.HorizonDays,
		"AUDIT_WORKERS":      &c.Audit.Workers,
	}
	for name, dst := range ints {
		if v, ok := lookup(name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(err, "invalid %s", name)
			}
			*dst = n
		}
	}

	if v, ok := lookup("SESSION_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "invalid SESSION_TTL")
		}
		c.SessionTTL = d
	}

	return nil
}
