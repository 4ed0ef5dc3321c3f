package mq

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultBatchSize = 100
	defaultTimeout   = 250 * time.Millisecond
)

// ProducerConfig describes how to connect to a Kafka topic for publishing messages.
type ProducerConfig struct {
	Brokers   []string
	Topic     string
	ClientID  string
	BatchSize int
	Timeout   time.Duration
}

// Validate ensures the producer configuration is usable.
func (cfg ProducerConfig) Validate() error {
	if len(cfg.Brokers) == 0 {
		return errors.New("mq: at least one broker must be configured")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		return errors.New("mq: topic must be provided")
	}
	return nil
}

func (cfg ProducerConfig) normalize() ProducerConfig {
	normalized := cfg
	normalized.Topic = strings.TrimSpace(cfg.Topic)
	normalized.ClientID = strings.TrimSpace(cfg.ClientID)

	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	normalized.Brokers = brokers

	return normalized
}

func (cfg ProducerConfig) effectiveBatchSize() int {
	if cfg.BatchSize > 0 {
		return cfg.BatchSize
	}
	return defaultBatchSize
}

func (cfg ProducerConfig) effectiveTimeout() time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return defaultTimeout
}

// String renders the configuration for startup logs.
func (cfg ProducerConfig) String() string {
	return fmt.Sprintf("topic=%s brokers=%s", cfg.Topic, strings.Join(cfg.Brokers, ","))
}
