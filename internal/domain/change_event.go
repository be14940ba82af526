package domain

import "context"

// Change event type names as sent by the upstream service.
const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
	EventClubUpdated      = "club_updated"
	EventCourtUpdated     = "court_updated"
)

// ChangeEvent is an upstream change notification. The set of implementations
// is closed: BookingCreated, BookingCancelled, ClubUpdated and CourtUpdated.
type ChangeEvent interface {
	EventType() string
	changeEvent()
}

// BookingCreated reports that a slot was booked.
type BookingCreated struct {
	ClubID  int
	CourtID int
	Slot    Slot
}

// BookingCancelled reports that a booked slot was released.
type BookingCancelled struct {
	ClubID  int
	CourtID int
	Slot    Slot
}

// ClubUpdated reports a change to club metadata. Fields is informational.
type ClubUpdated struct {
	ClubID int
	Fields []string
}

// CourtUpdated reports a change to court metadata. Fields is informational.
type CourtUpdated struct {
	ClubID  int
	CourtID int
	Fields  []string
}

func (BookingCreated) EventType() string   { return EventBookingCreated }
func (BookingCancelled) EventType() string { return EventBookingCancelled }
func (ClubUpdated) EventType() string      { return EventClubUpdated }
func (CourtUpdated) EventType() string     { return EventCourtUpdated }

func (BookingCreated) changeEvent()   {}
func (BookingCancelled) changeEvent() {}
func (ClubUpdated) changeEvent()      {}
func (CourtUpdated) changeEvent()     {}

// ChangeEventHandler applies one change event: cache invalidation plus notification.
type ChangeEventHandler interface {
	Handle(ctx context.Context, event ChangeEvent) error
}
