package services

import (
	"context"
	"fmt"
	"log/slog"

	"courtfinder/internal/domain"
)

type invalidator struct {
	cache     domain.AvailabilityCache
	publisher domain.EventPublisher
	logger    *slog.Logger
}

// NewInvalidator returns the handler that evicts cache entries affected by a
// change event and then publishes the matching notification.
func NewInvalidator(cache domain.AvailabilityCache, publisher domain.EventPublisher, logger *slog.Logger) domain.ChangeEventHandler {
	return &invalidator{cache: cache, publisher: publisher, logger: logger}
}

// Handle applies event. Cache keys carry no club id, so entries are matched on
// the club ids inside their payload. Eviction runs before publication so a bus
// failure never leaves a stale entry behind.
func (v *invalidator) Handle(ctx context.Context, event domain.ChangeEvent) error {
	var (
		removed []string
		n       domain.Notification
		err     error
	)
	switch e := event.(type) {
	case domain.BookingCreated:
		removed, err = v.evictClubOnDate(e.ClubID, e.Slot)
		n = domain.SlotBookedEvent{ClubID: e.ClubID, CourtID: e.CourtID, Slot: e.Slot}
	case domain.BookingCancelled:
		removed, err = v.evictClubOnDate(e.ClubID, e.Slot)
		n = domain.SlotAvailableEvent{ClubID: e.ClubID, CourtID: e.CourtID, Slot: e.Slot}
	case domain.ClubUpdated:
		removed = v.evictClub(e.ClubID)
		n = domain.ClubUpdatedEvent{ClubID: e.ClubID, Fields: e.Fields}
	case domain.CourtUpdated:
		// The cache is not indexed by court, so a court change evicts the whole club.
		removed = v.evictClub(e.ClubID)
		n = domain.CourtUpdatedEvent{ClubID: e.ClubID, CourtID: e.CourtID, Fields: e.Fields}
	default:
		return fmt.Errorf("%w: %T", domain.ErrUnknownEventType, event)
	}
	if err != nil {
		return err
	}

	v.logger.InfoContext(ctx, "cache invalidated",
		"event", event.EventType(),
		"keys", removed,
	)

	if err := v.publisher.Publish(ctx, n); err != nil {
		return fmt.Errorf("%w %s: %w", domain.ErrPublish, n.Topic(), err)
	}
	return nil
}

func (v *invalidator) evictClubOnDate(clubID int, slot domain.Slot) ([]string, error) {
	date, err := slot.Date()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return v.cache.DeleteWhere(func(key string, value []domain.ClubWithAvailability) bool {
		_, keyDate, ok := domain.ParseCacheKey(key)
		return ok && keyDate == date && domain.ContainsClub(value, clubID)
	}), nil
}

func (v *invalidator) evictClub(clubID int) []string {
	return v.cache.DeleteWhere(func(_ string, value []domain.ClubWithAvailability) bool {
		return domain.ContainsClub(value, clubID)
	})
}
