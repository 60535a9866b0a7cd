// Package config reads process configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// GetEnv retrieves the value of an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// GetEnvInt retrieves an integer environment variable with a fallback value if
// not set or not parseable
func GetEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// GetEnvDuration retrieves a duration environment variable with a fallback
// value if not set or not parseable
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// WorkerConfig represents the configuration for the background worker driver
type WorkerConfig struct {
	// SelfURL is the public URL of this server's worker endpoint, used for
	// the self-rescheduling trigger.
	SelfURL string
	// PingSchedule is the cron spec for the periodic worker ping that
	// revives a stalled chain.
	PingSchedule string
}

// NewWorkerConfig creates a worker configuration from the environment
func NewWorkerConfig() (*WorkerConfig, error) {
	cfg := &WorkerConfig{
		SelfURL:      os.Getenv("WORKER_SELF_URL"),
		PingSchedule: GetEnv("WORKER_PING_SCHEDULE", "@every 5m"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the worker configuration
func (c *WorkerConfig) Validate() error {
	if c.SelfURL == "" {
		return fmt.Errorf("WORKER_SELF_URL environment variable is not set")
	}
	return nil
}
