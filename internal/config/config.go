package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/BurntSushi/toml"
)

var (
	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Realtime backends
const (
	RealtimeBackendPostgres = "postgres"
	RealtimeBackendRedis    = "redis"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Realtime       RealtimeConfig       `toml:"realtime"`
	Redis          RedisConfig          `toml:"redis"`
	AMQP           AMQPConfig           `toml:"amqp"`
	ProfileService ProfileServiceConfig `toml:"profile_service"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RealtimeConfig настройки change feed для чата
type RealtimeConfig struct {
	Backend string `toml:"backend"` // postgres | redis
	Channel string `toml:"channel"`
	// Интервалы переподключения pq.Listener (секунды)
	MinReconnectInterval int `toml:"min_reconnect_interval"`
	MaxReconnectInterval int `toml:"max_reconnect_interval"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// AMQPConfig пустой URL отключает публикацию событий уведомлений
type AMQPConfig struct {
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

type ProfileServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load читает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	// Пароль БД можно переопределить через окружение
	if pwd := os.Getenv("DB_PASSWORD"); pwd != "" {
		cfg.Database.Password = pwd
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	switch c.Realtime.Backend {
	case RealtimeBackendPostgres:
	case RealtimeBackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for realtime backend redis", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown realtime.backend %q", ErrInvalidConfig, c.Realtime.Backend)
	}
	if c.Realtime.MinReconnectInterval > c.Realtime.MaxReconnectInterval {
		return fmt.Errorf("%w: realtime.min_reconnect_interval exceeds max", ErrInvalidConfig)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "kaamconnect_rental",
		},
		Realtime: RealtimeConfig{
			Backend:              RealtimeBackendPostgres,
			Channel:              "equipment_messages",
			MinReconnectInterval: 1,
			MaxReconnectInterval: 30,
		},
		AMQP: AMQPConfig{
			Exchange: "kaamconnect.notifications",
		},
		ProfileService: ProfileServiceConfig{
			Timeout: 3,
		},
	}
}
