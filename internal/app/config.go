package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/messaging/kafka"
)

// envPrefix общий префикс переменных окружения пайплайна.
const envPrefix = "ORDERFLOW_"

// Поддерживаемые хранилища заказов.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
	StorageDriverRedis    = "redis"
)

// Config описывает настройки запуска пайплайна.
type Config struct {
	StorageDriver       string `koanf:"storage_driver" validate:"required,oneof=memory postgres redis"`
	PostgresDSN         string `koanf:"postgres_dsn"`
	PostgresAutoMigrate bool   `koanf:"postgres_auto_migrate"`
	RedisAddr           string `koanf:"redis_addr"`
	RedisPassword       string `koanf:"redis_password"`
	RedisDB             int    `koanf:"redis_db" validate:"min=0,max=15"`
	RedisKeyPrefix      string `koanf:"redis_key_prefix"`
	KafkaBrokers        string `koanf:"kafka_brokers"`
	KafkaTopic          string `koanf:"kafka_topic" validate:"required"`
	MetricsAddr         string `koanf:"metrics_addr"`
	LogLevel            string `koanf:"log_level" validate:"required"`
	WaitForEnter        bool   `koanf:"wait_for_enter"`
}

// DefaultConfig возвращает конфигурацию по умолчанию: память, консоль, без метрик.
func DefaultConfig() Config {
	return Config{
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		RedisKeyPrefix:      "orderflow:",
		KafkaTopic:          kafka.TopicOrderEvents,
		LogLevel:            log.InfoLevel.String(),
		WaitForEnter:        true,
	}
}

// LoadConfig собирает конфигурацию: значения по умолчанию, затем ORDERFLOW_* из окружения.
func LoadConfig() (Config, error) {
	defaults := DefaultConfig()
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"storage_driver":        defaults.StorageDriver,
		"postgres_auto_migrate": defaults.PostgresAutoMigrate,
		"redis_key_prefix":      defaults.RedisKeyPrefix,
		"kafka_topic":           defaults.KafkaTopic,
		"log_level":             defaults.LogLevel,
		"wait_for_enter":        defaults.WaitForEnter,
	}, "."), nil); err != nil {
		return Config{}, fmt.Errorf("load config defaults: %w", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет теги структуры и требования выбранного хранилища.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch c.StorageDriver {
	case StorageDriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("invalid config: postgres_dsn is required for postgres storage")
		}
	case StorageDriverRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return errors.New("invalid config: redis_addr is required for redis storage")
		}
	}
	return nil
}

// Brokers возвращает список Kafka-брокеров без пустых элементов.
func (c Config) Brokers() []string {
	var brokers []string
	for _, broker := range strings.Split(c.KafkaBrokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

// Level уровень логирования; некорректное значение даёт info.
func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
