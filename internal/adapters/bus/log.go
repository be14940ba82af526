package bus

import (
	"context"
	"log/slog"

	"courtfinder/internal/domain"
)

type logPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher returns a publisher that only logs notifications.
func NewLogPublisher(logger *slog.Logger) domain.EventPublisher {
	return &logPublisher{logger: logger}
}

func (p *logPublisher) Publish(ctx context.Context, n domain.Notification) error {
	env := newEnvelope(n)
	p.logger.InfoContext(ctx, "notification published",
		"id", env.ID,
		"type", env.Type,
		"payload", n,
	)
	return nil
}

func (p *logPublisher) Close() error { return nil }
