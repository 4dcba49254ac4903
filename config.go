package carrot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajiwo/carrot/backends"
	amqpbackend "github.com/ajiwo/carrot/backends/amqp"
	natsbackend "github.com/ajiwo/carrot/backends/nats"
	pgbackend "github.com/ajiwo/carrot/backends/postgres"
	redisbackend "github.com/ajiwo/carrot/backends/redis"
	stompbackend "github.com/ajiwo/carrot/backends/stomp"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by NewViper
const EnvPrefix = "CARROT"

// Config is the host configuration of the messaging library
type Config struct {
	Backend  string                  `mapstructure:"backend"`
	LogLevel string                  `mapstructure:"log_level"`
	AMQP     backends.AMQPConfig     `mapstructure:"amqp"`
	STOMP    backends.STOMPConfig    `mapstructure:"stomp"`
	Redis    backends.RedisConfig    `mapstructure:"redis"`
	Postgres backends.PostgresConfig `mapstructure:"postgres"`
	NATS     backends.NATSConfig     `mapstructure:"nats"`
}

// NewViper returns a viper instance configured for CARROT_* environment
// variables and an optional config file.
//
// Search order when configFile is empty:
//   - $HOME/.carrot/config.(yaml|yml|json|toml|...)
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		return v, nil
	}

	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return v, nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(home, ".carrot"))
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, err
	}

	return v, nil
}

// setDefaults registers every key so environment variables reach Unmarshal.
// The default backend is deliberately left unset; an empty value selects
// backends.FallbackBackend.
func setDefaults(v *viper.Viper) {
	v.SetDefault(backends.SettingKey, "")
	v.SetDefault("log_level", "info")

	v.SetDefault("amqp.url", amqpbackend.DefaultURL)
	v.SetDefault("amqp.durable", false)
	v.SetDefault("amqp.prefetch", 0)

	v.SetDefault("stomp.addr", stompbackend.DefaultAddr)
	v.SetDefault("stomp.login", "")
	v.SetDefault("stomp.passcode", "")
	v.SetDefault("stomp.host", "")
	v.SetDefault("stomp.poll_timeout", stompbackend.DefaultPollTimeout)

	v.SetDefault("redis.addr", redisbackend.DefaultAddr)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.key_prefix", redisbackend.DefaultKeyPrefix)

	v.SetDefault("postgres.conn_string", "")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.timeout", "5s")
	v.SetDefault("nats.poll_timeout", natsbackend.DefaultPollTimeout)
}

// LoadConfig decodes and validates the configuration held by v
func LoadConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late
func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if c.AMQP.Prefetch < 0 {
		return fmt.Errorf("amqp prefetch must be non-negative")
	}
	if c.Redis.PoolSize < 0 {
		return fmt.Errorf("redis pool_size must be non-negative")
	}
	if c.Postgres.MinConns > c.Postgres.MaxConns && c.Postgres.MaxConns > 0 {
		return fmt.Errorf("postgres min_conns cannot exceed max_conns")
	}
	return nil
}

// DriverConfig returns the configuration section for a resolved backend type,
// or nil for modules this package does not know.
func (c Config) DriverConfig(t *backends.Type) any {
	switch t.Module {
	case amqpbackend.Module:
		return c.AMQP
	case stompbackend.Module:
		return c.STOMP
	case redisbackend.Module:
		return c.Redis
	case pgbackend.Module:
		return c.Postgres
	case natsbackend.Module:
		return c.NATS
	default:
		return nil
	}
}
