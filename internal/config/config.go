package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Synthetic feed configuration.
	RefreshInterval time.Duration
	RefreshDelay    time.Duration
	NoiseScale      float64
	RandomSeed      uint64

	// Animation configuration.
	FrameInterval time.Duration
	MaxWidgets    int
	DefaultTheme  string

	// Optional Kafka snapshot sink.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	refreshInterval, err := parsePositiveDuration("REFRESH_INTERVAL", "30s")
	if err != nil {
		return nil, err
	}

	// A zero delay is allowed and makes manual refreshes immediate.
	refreshDelay, err := time.ParseDuration(sharedcfg.EnvOrDefault("REFRESH_DELAY", "1s"))
	if err != nil || refreshDelay < 0 {
		return nil, errors.New("invalid REFRESH_DELAY")
	}

	frameInterval, err := parsePositiveDuration("FRAME_INTERVAL", "16ms")
	if err != nil {
		return nil, err
	}

	noiseScale, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("NOISE_SCALE", "1"), 64)
	if err != nil || noiseScale < 0 {
		return nil, errors.New("invalid NOISE_SCALE: must be a non-negative number")
	}

	seed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("RANDOM_SEED", "0"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid RANDOM_SEED: must be an unsigned integer")
	}

	maxWidgets, err := strconv.Atoi(sharedcfg.EnvOrDefault("MAX_WIDGETS", "32"))
	if err != nil || maxWidgets < 1 || maxWidgets > 1024 {
		return nil, errors.New("invalid MAX_WIDGETS: must be between 1 and 1024")
	}

	brokers := sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RefreshInterval: refreshInterval,
		RefreshDelay:    refreshDelay,
		NoiseScale:      noiseScale,
		RandomSeed:      seed,

		FrameInterval: frameInterval,
		MaxWidgets:    maxWidgets,
		DefaultTheme:  strings.ToLower(sharedcfg.EnvOrDefault("DEFAULT_THEME", "light")),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "bloom-metrics"),
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (allowed: json, text)", cfg.LogFormat)
	}
	switch cfg.DefaultTheme {
	case "light", "dark":
	default:
		return nil, fmt.Errorf("invalid DEFAULT_THEME %q (allowed: light, dark)", cfg.DefaultTheme)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required")
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}
