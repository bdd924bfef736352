package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Orders   OrderConfig
	Log      LogConfig
	Tracing  bool
}

type ServerConfig struct {
	Host            string
	Port            int
	MaxRequestBytes int
	ReadTimeout     time.Duration // 0 means no deadline
}

type DatabaseConfig struct {
	Driver          string // mysql, sqlite
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	Path            string // sqlite file
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	Seed            bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type OrderConfig struct {
	// AtomicWrites wraps order+items and status+inventory writes in one
	// transaction. false keeps every statement independently committed.
	AtomicWrites bool
}

type LogConfig struct {
	Level  string
	Format string
}

// Addr returns host:port for the TCP listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadEnvFile loads .env into the process environment. A missing file is
// not an error for the caller to stop on.
func LoadEnvFile(paths ...string) error {
	return godotenv.Load(paths...)
}

// Load reads the configuration from the environment, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("SERVER_HOST"),
			Port:            v.GetInt("SERVER_PORT"),
			MaxRequestBytes: v.GetInt("SERVER_MAX_REQUEST_BYTES"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:          v.GetString("DB_DRIVER"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			Path:            v.GetString("DB_PATH"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
			Seed:            v.GetBool("DB_SEED"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("CATALOG_CACHE_TTL"),
		},
		Orders: OrderConfig{
			AtomicWrites: v.GetBool("ORDER_ATOMIC_WRITES"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Tracing: v.GetBool("TRACING_ENABLED"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_MAX_REQUEST_BYTES", 1<<20)
	v.SetDefault("SERVER_READ_TIMEOUT", "0s")

	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "coffee_shop_database")
	v.SetDefault("DB_PASSWORD", "admin")
	v.SetDefault("DB_NAME", "coffeeshop")
	v.SetDefault("DB_PATH", "coffeeshop.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_SEED", false)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CATALOG_CACHE_TTL", "30s")

	v.SetDefault("ORDER_ATOMIC_WRITES", true)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("TRACING_ENABLED", false)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	if c.Server.MaxRequestBytes <= 0 {
		return fmt.Errorf("SERVER_MAX_REQUEST_BYTES must be positive")
	}
	return nil
}
