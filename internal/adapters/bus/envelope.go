package bus

import (
	"time"

	"github.com/google/uuid"

	"courtfinder/internal/domain"
)

// Envelope wraps every notification put on the bus.
type Envelope struct {
	ID         string              `json:"id"`
	Type       string              `json:"type"`
	OccurredAt time.Time           `json:"occurred_at"`
	Payload    domain.Notification `json:"payload"`
}

func newEnvelope(n domain.Notification) Envelope {
	return Envelope{
		ID:         uuid.New().String(),
		Type:       n.Topic(),
		OccurredAt: time.Now().UTC(),
		Payload:    n,
	}
}
