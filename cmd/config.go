package cmd

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/pkg/errs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	GRPCPort string

	DatabaseURL string
	RedisURL    string
	AutoMigrate bool

	KafkaBrokers       []string
	KafkaClientID      string
	KafkaConsumerGroup string
	KafkaLocationTopic string

	LocationTTL              time.Duration
	LocationHistoryRetention time.Duration

	LogMode string
}

// LoadConfig reads the environment, optionally seeded from a .env file in
// the working directory. Variables already set in the environment win over
// the file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	ttl, err := envInt("LOCATION_TTL_SECONDS", 300)
	if err != nil {
		return Config{}, err
	}
	retentionDays, err := envInt("LOCATION_HISTORY_RETENTION_DAYS", 30)
	if err != nil {
		return Config{}, err
	}
	autoMigrate, err := envBool("AUTO_MIGRATE", false)
	if err != nil {
		return Config{}, err
	}

	config := Config{
		HTTPPort:                 envString("HTTP_PORT", "8080"),
		GRPCPort:                 envString("GRPC_PORT", "50051"),
		DatabaseURL:              envString("DATABASE_URL", ""),
		RedisURL:                 envString("REDIS_URL", ""),
		AutoMigrate:              autoMigrate,
		KafkaBrokers:             splitList(envString("KAFKA_BROKERS", "localhost:9092")),
		KafkaClientID:            envString("KAFKA_CLIENT_ID", "delivery-service"),
		KafkaConsumerGroup:       envString("KAFKA_CONSUMER_GROUP", "delivery-service"),
		KafkaLocationTopic:       envString("KAFKA_LOCATION_TOPIC", "courier.location.updates"),
		LocationTTL:              time.Duration(ttl) * time.Second,
		LocationHistoryRetention: time.Duration(retentionDays) * 24 * time.Hour,
		LogMode:                  envString("LOG_MODE", "dev"),
	}

	return config, config.Validate()
}

func (c Config) Validate() error {
	var err error
	if c.DatabaseURL == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("DATABASE_URL"))
	}
	if c.RedisURL == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("REDIS_URL"))
	}
	if len(c.KafkaBrokers) == 0 {
		err = errors.Join(err, errs.NewValueIsRequiredError("KAFKA_BROKERS"))
	}
	if c.LocationTTL <= 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError(
			"LOCATION_TTL_SECONDS", c.LocationTTL, time.Second, time.Duration(math.MaxInt64)))
	}
	if c.LocationHistoryRetention <= 0 {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError(
			"LOCATION_HISTORY_RETENTION_DAYS", c.LocationHistoryRetention, 24*time.Hour, time.Duration(math.MaxInt64)))
	}
	return err
}

func envString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := envString(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	return value, nil
}

func envBool(key string, fallback bool) (bool, error) {
	raw := envString(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	return value, nil
}

func splitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
