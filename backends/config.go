package backends

import "time"

// AMQPConfig configures the pyamqplib backend
type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Durable  bool   `mapstructure:"durable"`
	Prefetch int    `mapstructure:"prefetch"`
}

// STOMPConfig configures the pystomp backend
type STOMPConfig struct {
	Addr        string        `mapstructure:"addr"`
	Login       string        `mapstructure:"login"`
	Passcode    string        `mapstructure:"passcode"`
	Host        string        `mapstructure:"host"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// RedisConfig configures the redis backend
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// PostgresConfig configures the postgres backend
type PostgresConfig struct {
	ConnString string `mapstructure:"conn_string"`
	MaxConns   int32  `mapstructure:"max_conns"`
	MinConns   int32  `mapstructure:"min_conns"`
}

// NATSConfig configures the nats backend
type NATSConfig struct {
	URL           string        `mapstructure:"url"`
	MaxReconnects int           `mapstructure:"max_reconnects"`
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"`
	Timeout       time.Duration `mapstructure:"timeout"`
	PollTimeout   time.Duration `mapstructure:"poll_timeout"`
}
