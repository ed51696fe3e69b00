// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Snapshot backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
)

type Config struct {
	HTTPAddr string
	RunLocal bool

	SnapshotBackend string
	SnapshotDir     string
	RedisAddr       string
	RedisPassword   string
	SnapshotTable   string

	OrdersTable      string
	IdempotencyTable string
	QueueURL         string
	MetricsNamespace string

	AuthLatency    time.Duration
	IdempotencyTTL time.Duration
}

// UsesAWS reports whether any AWS-backed component is configured.
func (c Config) UsesAWS() bool {
	return c.SnapshotBackend == BackendDynamoDB || c.OrdersTable != "" ||
		c.IdempotencyTable != "" || c.QueueURL != "" || c.MetricsNamespace != ""
}

// Load reads the environment, applying defaults for unset variables.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		SnapshotBackend:  getEnv("SNAPSHOT_BACKEND", BackendMemory),
		SnapshotDir:      getEnv("SNAPSHOT_DIR", "data"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		SnapshotTable:    os.Getenv("SNAPSHOT_TABLE"),
		OrdersTable:      os.Getenv("ORDERS_TABLE"),
		IdempotencyTable: os.Getenv("IDEMPOTENCY_TABLE"),
		QueueURL:         os.Getenv("ORDERS_QUEUE_URL"),
		MetricsNamespace: os.Getenv("METRICS_NAMESPACE"),
	}

	var err error
	if cfg.RunLocal, err = strconv.ParseBool(getEnv("RUN_LOCAL", "false")); err != nil {
		return Config{}, fmt.Errorf("RUN_LOCAL: %w", err)
	}
	if cfg.AuthLatency, err = time.ParseDuration(getEnv("AUTH_LATENCY", "1s")); err != nil {
		return Config{}, fmt.Errorf("AUTH_LATENCY: %w", err)
	}
	if cfg.IdempotencyTTL, err = time.ParseDuration(getEnv("IDEMPOTENCY_TTL", "48h")); err != nil {
		return Config{}, fmt.Errorf("IDEMPOTENCY_TTL: %w", err)
	}

	switch cfg.SnapshotBackend {
	case BackendMemory, BackendFile, BackendRedis:
	case BackendDynamoDB:
		if cfg.SnapshotTable == "" {
			return Config{}, fmt.Errorf("SNAPSHOT_TABLE is required for the %s backend", BackendDynamoDB)
		}
	default:
		return Config{}, fmt.Errorf("unknown SNAPSHOT_BACKEND %q", cfg.SnapshotBackend)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
