package services

import (
	"context"
	"errors"
	"testing"

	"courtfinder/internal/adapters/cache"
	"courtfinder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededCache returns a cache holding entries for two places over two dates.
func seededCache() *cache.Memory {
	c := cache.NewMemory()
	c.Set("P-2024-05-01", cached(7, 8))
	c.Set("P-2024-05-02", cached(7))
	c.Set("Q-2024-05-01", cached(9))
	// Place id "7" used to collide with key-prefix matching on club 7.
	c.Set("7-2024-05-01", cached(9))
	return c
}

func TestInvalidator_Handle(t *testing.T) {
	bookingSlot := slot("2024-05-01T10:00:00")

	tests := []struct {
		name          string
		event         domain.ChangeEvent
		wantKeys      []string
		wantPublished domain.Notification
	}{
		{
			name:          "booking created evicts entries holding the club on that date",
			event:         domain.BookingCreated{ClubID: 7, CourtID: 70, Slot: bookingSlot},
			wantKeys:      []string{"7-2024-05-01", "P-2024-05-02", "Q-2024-05-01"},
			wantPublished: domain.SlotBookedEvent{ClubID: 7, CourtID: 70, Slot: bookingSlot},
		},
		{
			name:          "booking for a club not cached leaves entries",
			event:         domain.BookingCreated{ClubID: 42, CourtID: 1, Slot: bookingSlot},
			wantKeys:      []string{"7-2024-05-01", "P-2024-05-01", "P-2024-05-02", "Q-2024-05-01"},
			wantPublished: domain.SlotBookedEvent{ClubID: 42, CourtID: 1, Slot: bookingSlot},
		},
		{
			name:          "booking cancelled evicts and publishes slot available",
			event:         domain.BookingCancelled{ClubID: 9, CourtID: 90, Slot: bookingSlot},
			wantKeys:      []string{"P-2024-05-01", "P-2024-05-02"},
			wantPublished: domain.SlotAvailableEvent{ClubID: 9, CourtID: 90, Slot: bookingSlot},
		},
		{
			name:          "booking on another date leaves entries",
			event:         domain.BookingCreated{ClubID: 9, CourtID: 90, Slot: slot("2024-05-03T10:00:00")},
			wantKeys:      []string{"7-2024-05-01", "P-2024-05-01", "P-2024-05-02", "Q-2024-05-01"},
			wantPublished: domain.SlotBookedEvent{ClubID: 9, CourtID: 90, Slot: slot("2024-05-03T10:00:00")},
		},
		{
			name:          "club updated evicts every date holding the club",
			event:         domain.ClubUpdated{ClubID: 7, Fields: []string{"openhours"}},
			wantKeys:      []string{"7-2024-05-01", "Q-2024-05-01"},
			wantPublished: domain.ClubUpdatedEvent{ClubID: 7, Fields: []string{"openhours"}},
		},
		{
			name:          "court updated evicts the whole club",
			event:         domain.CourtUpdated{ClubID: 8, CourtID: 80, Fields: []string{"name"}},
			wantKeys:      []string{"7-2024-05-01", "P-2024-05-02", "Q-2024-05-01"},
			wantPublished: domain.CourtUpdatedEvent{ClubID: 8, CourtID: 80, Fields: []string{"name"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := seededCache()
			pub := &fakePublisher{}
			h := NewInvalidator(c, pub, testLogger)

			err := h.Handle(context.Background(), tt.event)

			require.NoError(t, err)
			assert.Equal(t, tt.wantKeys, c.Keys())
			require.Len(t, pub.published, 1)
			assert.Equal(t, tt.wantPublished, pub.published[0])
		})
	}
}

func TestInvalidator_BookingMatchesClubMembership(t *testing.T) {
	c := cache.NewMemory()
	c.Set(domain.CacheKey("P", mustDate("2024-05-01")), cached(7))
	h := NewInvalidator(c, &fakePublisher{}, testLogger)

	require.NoError(t, h.Handle(context.Background(), domain.BookingCreated{ClubID: 9, CourtID: 1, Slot: slot("2024-05-01T12:00:00")}))
	_, ok := c.Get("P-2024-05-01")
	assert.True(t, ok)

	require.NoError(t, h.Handle(context.Background(), domain.BookingCreated{ClubID: 7, CourtID: 1, Slot: slot("2024-05-01T12:00:00")}))
	_, ok = c.Get("P-2024-05-01")
	assert.False(t, ok)
}

func TestInvalidator_UnknownEventType(t *testing.T) {
	for _, event := range []domain.ChangeEvent{nil, &domain.BookingCreated{ClubID: 7, Slot: slot("2024-05-01T10:00:00")}} {
		c := seededCache()
		pub := &fakePublisher{}
		h := NewInvalidator(c, pub, testLogger)

		err := h.Handle(context.Background(), event)

		assert.ErrorIs(t, err, domain.ErrUnknownEventType)
		assert.Equal(t, 4, c.Len())
		assert.Empty(t, pub.published)
	}
}

func TestInvalidator_PublishFailureStillEvicts(t *testing.T) {
	c := seededCache()
	pub := &fakePublisher{err: errors.New("broker down")}
	h := NewInvalidator(c, pub, testLogger)

	err := h.Handle(context.Background(), domain.ClubUpdated{ClubID: 9})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPublish)
	assert.Contains(t, err.Error(), "broker down")
	assert.Equal(t, []string{"P-2024-05-01", "P-2024-05-02"}, c.Keys())
}

func TestInvalidator_BookingWithoutDate(t *testing.T) {
	c := seededCache()
	pub := &fakePublisher{}
	h := NewInvalidator(c, pub, testLogger)

	err := h.Handle(context.Background(), domain.BookingCreated{ClubID: 7, Slot: domain.Slot{Datetime: "soon"}})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 4, c.Len())
	assert.Empty(t, pub.published)
}
