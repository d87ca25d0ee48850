// Package config loads server settings from the environment, optionally
// overridden by a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/pronos/go/internal/dbconfig"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Config struct {
	Port        string
	StoreDriver string
	LockDriver  string
	LogLevel    string
	SeedFixture string
	NATSURL     string

	Database dbconfig.Config
	Redis    RedisConfig

	Lock         LockConfig         `yaml:"lock"`
	Draft        DraftConfig        `yaml:"draft"`
	Outbox       OutboxConfig       `yaml:"outbox"`
	Orchestrator OrchestratorConfig `yaml:"orchestrator"`
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LockConfig struct {
	Wait time.Duration `yaml:"wait"`
	TTL  time.Duration `yaml:"ttl"`
}

type DraftConfig struct {
	TimePerPickSec int `yaml:"time_per_pick_sec"`
	DefaultRounds  int `yaml:"default_rounds"`
}

type OutboxConfig struct {
	FallbackInterval time.Duration `yaml:"fallback_interval"`
	BatchSize        int32         `yaml:"batch_size"`
	MaxRetries       int           `yaml:"max_retries"`
	RetryDelay       time.Duration `yaml:"retry_delay"`
}

type OrchestratorConfig struct {
	Workers int `yaml:"workers"`
}

// fileConfig is the subset of Config a CONFIG_FILE may override.
type fileConfig struct {
	Lock         *LockConfig         `yaml:"lock"`
	Draft        *DraftConfig        `yaml:"draft"`
	Outbox       *OutboxConfig       `yaml:"outbox"`
	Orchestrator *OrchestratorConfig `yaml:"orchestrator"`
}

// Load reads the environment. Call godotenv.Load first to pick up a .env file.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "8080"),
		StoreDriver: getEnv("STORE_DRIVER", DriverMemory),
		LockDriver:  getEnv("LOCK_DRIVER", DriverMemory),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		SeedFixture: os.Getenv("SEED_FIXTURE"),
		NATSURL:     os.Getenv("NATS_URL"),
		Database:    dbconfig.NewConfigFromEnv(),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Lock: LockConfig{
			Wait: getEnvAsDuration("LOCK_WAIT", 2*time.Second),
			TTL:  getEnvAsDuration("LOCK_TTL", 10*time.Second),
		},
		Draft: DraftConfig{
			TimePerPickSec: getEnvAsInt("DRAFT_TIME_PER_PICK_SEC", 90),
			DefaultRounds:  getEnvAsInt("DRAFT_DEFAULT_ROUNDS", 5),
		},
		Outbox: OutboxConfig{
			FallbackInterval: 30 * time.Second,
			BatchSize:        100,
			MaxRetries:       5,
			RetryDelay:       200 * time.Millisecond,
		},
		Orchestrator: OrchestratorConfig{
			Workers: getEnvAsInt("ORCHESTRATOR_WORKERS", 4),
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if fc.Lock != nil {
		c.Lock = *fc.Lock
	}
	if fc.Draft != nil {
		c.Draft = *fc.Draft
	}
	if fc.Outbox != nil {
		c.Outbox = *fc.Outbox
	}
	if fc.Orchestrator != nil {
		c.Orchestrator = *fc.Orchestrator
	}
	return nil
}

// Validate rejects unknown drivers and non-positive limits.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.LockDriver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("unknown LOCK_DRIVER %q", c.LockDriver)
	}
	if c.Lock.Wait <= 0 || c.Lock.TTL <= 0 {
		return fmt.Errorf("lock wait and ttl must be positive")
	}
	if c.Draft.TimePerPickSec <= 0 || c.Draft.DefaultRounds <= 0 {
		return fmt.Errorf("draft time per pick and default rounds must be positive")
	}
	if c.Outbox.BatchSize <= 0 || c.Outbox.FallbackInterval <= 0 {
		return fmt.Errorf("outbox batch size and fallback interval must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
