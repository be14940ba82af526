package bus

import (
	"fmt"
	"log/slog"

	"courtfinder/internal/domain"
)

// Providers accepted by NewPublisher.
const (
	ProviderLog      = "log"
	ProviderRabbitMQ = "rabbitmq"
	ProviderRedis    = "redis"
	ProviderPostgres = "postgres"
)

// Config holds configuration for creating a publisher.
type Config struct {
	Provider     string
	RabbitURL    string
	Exchange     string
	RedisURL     string
	RedisChannel string
	DatabaseURL  string
}

// NewPublisher creates a publisher from config. "log" or an unknown provider
// writes notifications to the logger only.
func NewPublisher(config Config, logger *slog.Logger) (domain.EventPublisher, error) {
	switch config.Provider {
	case ProviderRabbitMQ:
		p, err := NewRabbitPublisher(config.RabbitURL, config.Exchange)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq publisher: %w", err)
		}
		return p, nil
	case ProviderRedis:
		p, err := NewRedisPublisher(config.RedisURL, config.RedisChannel)
		if err != nil {
			return nil, fmt.Errorf("redis publisher: %w", err)
		}
		return p, nil
	case ProviderPostgres:
		p, err := NewPostgresPublisher(config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres publisher: %w", err)
		}
		return p, nil
	case ProviderLog, "":
		return NewLogPublisher(logger), nil
	default:
		logger.Warn("unknown event bus provider, using log", "provider", config.Provider)
		return NewLogPublisher(logger), nil
	}
}
