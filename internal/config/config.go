package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const DefaultPath = "config.yaml"

type Config struct {
	App    App    `yaml:"app"`
	HTTP   HTTP   `yaml:"http"`
	Log    Log    `yaml:"log"`
	Redis  Redis  `yaml:"redis"`
	Events Events `yaml:"events"`
	Kafka  Kafka  `yaml:"kafka"`
	NATS   NATS   `yaml:"nats"`
}

type App struct {
	Name    string `yaml:"name" env:"APP_NAME" env-default:"itinerary-api"`
	Version string `yaml:"version" env:"APP_VERSION" env-default:"1.0.0"`
}

type HTTP struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"3000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" env:"HTTP_MAX_BODY_BYTES" env-default:"102400"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// Redis backs the idempotency middleware. An empty Addr disables it.
type Redis struct {
	Addr           string        `yaml:"addr" env:"REDIS_ADDR"`
	Password       string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB             int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl" env:"REDIS_IDEMPOTENCY_TTL" env-default:"24h"`
}

const (
	DriverNone  = "none"
	DriverKafka = "kafka"
	DriverNATS  = "nats"
)

type Events struct {
	Driver       string        `yaml:"driver" env:"EVENTS_DRIVER" env-default:"none"`
	PollInterval time.Duration `yaml:"poll_interval" env:"EVENTS_POLL_INTERVAL" env-default:"2s"`
	BatchSize    int           `yaml:"batch_size" env:"EVENTS_BATCH_SIZE" env-default:"10"`
}

type Kafka struct {
	Brokers      []string      `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	Topic        string        `yaml:"topic" env:"KAFKA_TOPIC" env-default:"itinerary-events"`
	GroupID      string        `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"itinerary-watch"`
	StartOffset  string        `yaml:"start_offset" env:"KAFKA_START_OFFSET" env-default:"earliest"`
	MaxAttempts  int           `yaml:"max_attempts" env:"KAFKA_MAX_ATTEMPTS" env-default:"5"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"KAFKA_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"KAFKA_WRITE_TIMEOUT" env-default:"10s"`
}

type NATS struct {
	URL           string `yaml:"url" env:"NATS_URL" env-default:"nats://127.0.0.1:4222"`
	SubjectPrefix string `yaml:"subject_prefix" env:"NATS_SUBJECT_PREFIX" env-default:"itinerary"`
}

// New loads DefaultPath. See Load.
func New() (*Config, error) {
	return Load(DefaultPath)
}

// Load reads .env into the environment (if present), then the yaml file at
// path, then lets environment variables override it. A missing file falls
// back to environment variables and defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		// ReadConfig applies env overrides on top of the file.
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else if errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else {
		return nil, fmt.Errorf("config error: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Events.Driver {
	case DriverNone, DriverKafka, DriverNATS:
	default:
		return fmt.Errorf("unknown events driver %q", c.Events.Driver)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("http max body bytes must be positive")
	}
	if c.Events.Driver != DriverNone {
		if c.Events.PollInterval <= 0 {
			return fmt.Errorf("events poll interval must be positive")
		}
		if c.Events.BatchSize <= 0 {
			return fmt.Errorf("events batch size must be positive")
		}
	}
	return nil
}
