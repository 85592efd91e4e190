package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/jobtrack-backend/internal/data/db"
	"github.com/yungbote/jobtrack-backend/internal/platform/envutil"
	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

type DatabaseConfig struct {
	Driver           string `yaml:"driver"`
	PostgresHost     string `yaml:"postgres_host"`
	PostgresPort     string `yaml:"postgres_port"`
	PostgresUser     string `yaml:"postgres_user"`
	PostgresPassword string `yaml:"postgres_password"`
	PostgresName     string `yaml:"postgres_name"`
	SQLitePath       string `yaml:"sqlite_path"`
}

func (d DatabaseConfig) toDB() db.Config {
	return db.Config{
		Driver:           d.Driver,
		PostgresHost:     d.PostgresHost,
		PostgresPort:     d.PostgresPort,
		PostgresUser:     d.PostgresUser,
		PostgresPassword: d.PostgresPassword,
		PostgresName:     d.PostgresName,
		SQLitePath:       d.SQLitePath,
	}
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type WritesConfig struct {
	LockTTL     time.Duration `yaml:"lock_ttl"`
	MaxAttempts int           `yaml:"max_attempts"`
}

type DigestConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Schedule    string `yaml:"schedule"`
	WindowHours int    `yaml:"window_hours"`
	Channel     string `yaml:"channel"`
}

// Config is resolved as defaults, then the optional CONFIG_FILE (YAML), then
// environment variables. Metrics and tracing switches are read from the
// environment by the observability package itself.
type Config struct {
	Port               string         `yaml:"port"`
	JWTSecretKey       string         `yaml:"jwt_secret_key"`
	AutoProvisionUsers bool           `yaml:"auto_provision_users"`
	CORSOrigins        []string       `yaml:"cors_origins"`
	Database           DatabaseConfig `yaml:"database"`
	Redis              RedisConfig    `yaml:"redis"`
	Writes             WritesConfig   `yaml:"writes"`
	Digest             DigestConfig   `yaml:"reminder_digest"`
}

func defaultConfig() Config {
	return Config{
		Port:               "8080",
		AutoProvisionUsers: true,
		Database: DatabaseConfig{
			Driver:       db.DriverPostgres,
			PostgresHost: "localhost",
			PostgresPort: "5432",
			PostgresUser: "postgres",
			PostgresName: "jobtrack",
		},
		Writes: WritesConfig{
			LockTTL:     10 * time.Second,
			MaxAttempts: 5,
		},
		Digest: DigestConfig{
			Enabled:     true,
			Schedule:    "@hourly",
			WindowHours: 24,
			Channel:     "reminders.due",
		},
	}
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()

	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Port = envutil.String("PORT", c.Port)
	c.JWTSecretKey = envutil.String("JWT_SECRET_KEY", c.JWTSecretKey)
	c.AutoProvisionUsers = envutil.Bool("AUTO_PROVISION_USERS", c.AutoProvisionUsers)
	c.CORSOrigins = envutil.List("CORS_ORIGINS", c.CORSOrigins)

	c.Database.Driver = envutil.String("DB_DRIVER", c.Database.Driver)
	c.Database.PostgresHost = envutil.String("POSTGRES_HOST", c.Database.PostgresHost)
	c.Database.PostgresPort = envutil.String("POSTGRES_PORT", c.Database.PostgresPort)
	c.Database.PostgresUser = envutil.String("POSTGRES_USER", c.Database.PostgresUser)
	c.Database.PostgresPassword = envutil.String("POSTGRES_PASSWORD", c.Database.PostgresPassword)
	c.Database.PostgresName = envutil.String("POSTGRES_NAME", c.Database.PostgresName)
	c.Database.SQLitePath = envutil.String("SQLITE_PATH", c.Database.SQLitePath)

	c.Redis.Addr = envutil.String("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = envutil.String("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = envutil.Int("REDIS_DB", c.Redis.DB)

	c.Writes.LockTTL = envutil.Duration("APPLICATION_LOCK_TTL", c.Writes.LockTTL)
	c.Writes.MaxAttempts = envutil.Int("APPLICATION_WRITE_RETRIES", c.Writes.MaxAttempts)

	c.Digest.Enabled = envutil.Bool("REMINDER_DIGEST_ENABLED", c.Digest.Enabled)
	c.Digest.Schedule = envutil.String("REMINDER_DIGEST_CRON", c.Digest.Schedule)
	c.Digest.WindowHours = envutil.Int("REMINDER_DIGEST_WINDOW_HOURS", c.Digest.WindowHours)
	c.Digest.Channel = envutil.String("REMINDER_DIGEST_CHANNEL", c.Digest.Channel)
}

func (c Config) validate() error {
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	switch strings.ToLower(c.Database.Driver) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Writes.MaxAttempts < 1 {
		return fmt.Errorf("APPLICATION_WRITE_RETRIES must be at least 1")
	}
	if c.Digest.WindowHours < 1 {
		return fmt.Errorf("REMINDER_DIGEST_WINDOW_HOURS must be at least 1")
	}
	return nil
}

func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
