package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Feed source. Exactly one of FeedURL and FeedFile is set.
	FeedURL     string
	FeedFile    string
	FeedTimeout time.Duration

	SearchLimit    int
	SearchCacheTTL time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	KafkaBrokers        []string
	KafkaPublishEnabled bool
	KafkaBirdTopic      string
	KafkaStreamEnabled  bool
	KafkaSightingTopic  string
	KafkaGroupID        string

	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := parsePositiveDuration("FEED_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("SEARCH_CACHE_TTL", "1m"))
	if err != nil || cacheTTL < 0 {
		return nil, errors.New("invalid SEARCH_CACHE_TTL")
	}

	searchLimit, err := strconv.Atoi(sharedcfg.EnvOrDefault("SEARCH_LIMIT", "10"))
	if err != nil || searchLimit <= 0 {
		return nil, errors.New("invalid SEARCH_LIMIT")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		FeedURL:        os.Getenv("FEED_URL"),
		FeedFile:       os.Getenv("FEED_FILE"),
		FeedTimeout:    feedTimeout,
		SearchLimit:    searchLimit,
		SearchCacheTTL: cacheTTL,

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:        sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaPublishEnabled: os.Getenv("KAFKA_PUBLISH_ENABLED") == "true",
		KafkaBirdTopic:      sharedcfg.EnvOrDefault("KAFKA_BIRD_TOPIC", "bird-summaries"),
		KafkaStreamEnabled:  os.Getenv("KAFKA_STREAM_ENABLED") == "true",
		KafkaSightingTopic:  sharedcfg.EnvOrDefault("KAFKA_SIGHTING_TOPIC", "raw-sightings"),
		KafkaGroupID:        sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "birdband"),

		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}

	if cfg.FeedURL == "" && cfg.FeedFile == "" {
		return nil, errors.New("one of FEED_URL or FEED_FILE is required")
	}
	if cfg.FeedURL != "" && cfg.FeedFile != "" {
		return nil, errors.New("FEED_URL and FEED_FILE are mutually exclusive")
	}
	if (cfg.KafkaPublishEnabled || cfg.KafkaStreamEnabled) && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when kafka is enabled")
	}
	if cfg.KafkaPublishEnabled && cfg.KafkaBirdTopic == "" {
		return nil, errors.New("KAFKA_BIRD_TOPIC is required")
	}
	if cfg.KafkaStreamEnabled && cfg.KafkaSightingTopic == "" {
		return nil, errors.New("KAFKA_SIGHTING_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
