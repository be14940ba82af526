package atc

import (
	"context"
	"log/slog"
	"time"
)

// Observer receives every failed attempt of an upstream call. Retry is called
// before each backoff wait; Degraded is called once when the call gives up and
// returns an empty result.
type Observer interface {
	Retry(ctx context.Context, path string, attempt int, delay time.Duration, err error)
	Degraded(ctx context.Context, path string, err error)
}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver returns an Observer that writes to logger.
func NewLogObserver(logger *slog.Logger) Observer {
	return &logObserver{logger: logger}
}

func (o *logObserver) Retry(ctx context.Context, path string, attempt int, delay time.Duration, err error) {
	o.logger.WarnContext(ctx, "upstream request failed, retrying",
		"path", path,
		"attempt", attempt,
		"delay_ms", delay.Milliseconds(),
		"err", err,
	)
}

func (o *logObserver) Degraded(ctx context.Context, path string, err error) {
	o.logger.ErrorContext(ctx, "upstream request failed, returning empty result",
		"path", path,
		"err", err,
	)
}
