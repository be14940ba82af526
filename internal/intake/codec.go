// Package intake decodes and validates upstream change events at the service
// boundary. Both the HTTP endpoint and the queue consumer go through Decode, so
// nothing malformed reaches the invalidator.
package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"courtfinder/internal/domain"
)

var (
	clubFields  = []string{"attributes", "openhours", "logo_url", "background_url"}
	courtFields = []string{"attributes", "name"}
)

// ValidationError lists every problem found in a change event payload.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid change event: " + strings.Join(e.Problems, "; ")
}

// ExternalEvent is the wire shape of an upstream change event. Which fields
// are allowed depends on Type.
type ExternalEvent struct {
	Type    string     `json:"type"`
	ClubID  *int       `json:"clubId"`
	CourtID *int       `json:"courtId,omitempty"`
	Slot    *SlotInput `json:"slot,omitempty"`
	Fields  []string   `json:"fields,omitempty"`
}

// SlotInput is the slot carried by booking events. The upstream sends the
// priority as "_priority"; "priority" is accepted as well.
type SlotInput struct {
	Price       *float64 `json:"price"`
	Duration    *float64 `json:"duration"`
	Datetime    *string  `json:"datetime"`
	Start       *string  `json:"start"`
	End         *string  `json:"end"`
	Priority    *float64 `json:"priority,omitempty"`
	PriorityAlt *float64 `json:"_priority,omitempty"`
}

// Decode parses body strictly (unknown fields rejected) and converts it to a
// domain.ChangeEvent. Validation failures are returned as *ValidationError.
func Decode(body []byte) (domain.ChangeEvent, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	var ev ExternalEvent
	if err := dec.Decode(&ev); err != nil {
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}
	if dec.More() {
		return nil, &ValidationError{Problems: []string{"body must contain a single JSON object"}}
	}
	if problems := ev.Validate(); len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return ev.ToDomain(), nil
}

// Validate implements the delivery Validator contract. It returns one message
// per problem; nil means valid.
func (e ExternalEvent) Validate() []string {
	var errs []string
	if e.ClubID == nil {
		errs = append(errs, "clubId is required")
	}
	switch e.Type {
	case domain.EventBookingCreated, domain.EventBookingCancelled:
		if e.CourtID == nil {
			errs = append(errs, "courtId is required")
		}
		if e.Slot == nil {
			errs = append(errs, "slot is required")
		} else {
			errs = append(errs, e.Slot.validate()...)
		}
		if e.Fields != nil {
			errs = append(errs, "fields is not allowed for "+e.Type)
		}
	case domain.EventClubUpdated:
		if e.CourtID != nil {
			errs = append(errs, "courtId is not allowed for "+e.Type)
		}
		if e.Slot != nil {
			errs = append(errs, "slot is not allowed for "+e.Type)
		}
		errs = append(errs, validateFields(e.Fields, clubFields)...)
	case domain.EventCourtUpdated:
		if e.CourtID == nil {
			errs = append(errs, "courtId is required")
		}
		if e.Slot != nil {
			errs = append(errs, "slot is not allowed for "+e.Type)
		}
		errs = append(errs, validateFields(e.Fields, courtFields)...)
	case "":
		errs = append(errs, "type is required")
	default:
		errs = append(errs, fmt.Sprintf("unhandled event type: %s", e.Type))
	}
	return errs
}

// ToDomain converts a validated event.
func (e ExternalEvent) ToDomain() domain.ChangeEvent {
	switch e.Type {
	case domain.EventBookingCreated:
		return domain.BookingCreated{ClubID: *e.ClubID, CourtID: *e.CourtID, Slot: e.Slot.toDomain()}
	case domain.EventBookingCancelled:
		return domain.BookingCancelled{ClubID: *e.ClubID, CourtID: *e.CourtID, Slot: e.Slot.toDomain()}
	case domain.EventClubUpdated:
		return domain.ClubUpdated{ClubID: *e.ClubID, Fields: e.Fields}
	case domain.EventCourtUpdated:
		return domain.CourtUpdated{ClubID: *e.ClubID, CourtID: *e.CourtID, Fields: e.Fields}
	}
	return nil
}

func (s *SlotInput) validate() []string {
	var errs []string
	if s.Price == nil {
		errs = append(errs, "slot.price is required")
	}
	if s.Duration == nil {
		errs = append(errs, "slot.duration is required")
	}
	if s.Datetime == nil {
		errs = append(errs, "slot.datetime is required")
	} else if _, err := (domain.Slot{Datetime: *s.Datetime}).Date(); err != nil {
		errs = append(errs, "slot.datetime must start with a YYYY-MM-DD date")
	}
	if s.Start == nil {
		errs = append(errs, "slot.start is required")
	}
	if s.End == nil {
		errs = append(errs, "slot.end is required")
	}
	switch {
	case s.Priority == nil && s.PriorityAlt == nil:
		errs = append(errs, "slot.priority is required")
	case s.Priority != nil && s.PriorityAlt != nil:
		errs = append(errs, "slot.priority and slot._priority are mutually exclusive")
	}
	return errs
}

func (s *SlotInput) toDomain() domain.Slot {
	priority := s.PriorityAlt
	if s.Priority != nil {
		priority = s.Priority
	}
	return domain.Slot{
		Price:    *s.Price,
		Duration: *s.Duration,
		Datetime: *s.Datetime,
		Start:    *s.Start,
		End:      *s.End,
		Priority: *priority,
	}
}

func validateFields(fields, allowed []string) []string {
	if fields == nil {
		return []string{"fields is required"}
	}
	var errs []string
	for _, f := range fields {
		if !slices.Contains(allowed, f) {
			errs = append(errs, fmt.Sprintf("fields: %q is not one of %s", f, strings.Join(allowed, ", ")))
		}
	}
	return errs
}
