package domain

import "context"

// Routing keys for outbound notifications.
const (
	TopicSlotBooked    = "slot.booked"
	TopicSlotAvailable = "slot.available"
	TopicClubUpdated   = "club.updated"
	TopicCourtUpdated  = "court.updated"
)

// Notification is a domain event published for downstream subsystems.
type Notification interface {
	Topic() string
}

// SlotBookedEvent is published after a booking_created change.
type SlotBookedEvent struct {
	ClubID  int  `json:"clubId"`
	CourtID int  `json:"courtId"`
	Slot    Slot `json:"slot"`
}

// SlotAvailableEvent is published after a booking_cancelled change.
type SlotAvailableEvent struct {
	ClubID  int  `json:"clubId"`
	CourtID int  `json:"courtId"`
	Slot    Slot `json:"slot"`
}

// ClubUpdatedEvent is published after a club_updated change.
type ClubUpdatedEvent struct {
	ClubID int      `json:"clubId"`
	Fields []string `json:"fields"`
}

// CourtUpdatedEvent is published after a court_updated change.
type CourtUpdatedEvent struct {
	ClubID  int      `json:"clubId"`
	CourtID int      `json:"courtId"`
	Fields  []string `json:"fields"`
}

func (SlotBookedEvent) Topic() string    { return TopicSlotBooked }
func (SlotAvailableEvent) Topic() string { return TopicSlotAvailable }
func (ClubUpdatedEvent) Topic() string   { return TopicClubUpdated }
func (CourtUpdatedEvent) Topic() string  { return TopicCourtUpdated }

// EventPublisher delivers notifications to the event bus (infrastructure port).
type EventPublisher interface {
	Publish(ctx context.Context, n Notification) error
	Close() error
}
