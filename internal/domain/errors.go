package domain

import "errors"

// Sentinel errors shared across services and delivery.
var (
	// ErrAggregation marks a fault inside the aggregator itself; the whole query fails.
	ErrAggregation      = errors.New("availability aggregation failed")
	// ErrUnknownEventType is returned for change events outside the known set.
	ErrUnknownEventType = errors.New("unknown event type")
	// ErrPublish wraps event bus delivery failures.
	ErrPublish          = errors.New("publish notification")
	ErrInvalidInput     = errors.New("invalid input")
)
