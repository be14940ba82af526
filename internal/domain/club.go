package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used in queries, cache keys and upstream calls.
const DateLayout = "2006-01-02"

// Club is a venue as returned by the upstream service.
// Fields this service does not interpret are kept in Extra and written back unchanged.
// swagger:model Club
type Club struct {
	ID    int                        `json:"id"`
	Name  string                     `json:"name"`
	Extra map[string]json.RawMessage `json:"-"`
}

// Court is a bookable court belonging to exactly one club.
// swagger:model Court
type Court struct {
	ID    int                        `json:"id"`
	Extra map[string]json.RawMessage `json:"-"`
}

// Slot is one bookable interval on a court.
// swagger:model Slot
type Slot struct {
	Price    float64 `json:"price"`
	Duration float64 `json:"duration"`
	Datetime string  `json:"datetime"`
	Start    string  `json:"start"`
	End      string  `json:"end"`
	Priority float64 `json:"_priority"`
}

// Date returns the calendar date part of Datetime.
func (s Slot) Date() (string, error) {
	if len(s.Datetime) < len(DateLayout) {
		return "", fmt.Errorf("slot datetime %q has no date", s.Datetime)
	}
	d := s.Datetime[:len(DateLayout)]
	if _, err := time.Parse(DateLayout, d); err != nil {
		return "", fmt.Errorf("slot datetime %q: %w", s.Datetime, err)
	}
	return d, nil
}

// CourtWithAvailability is a court augmented with its free slots for the requested date.
// swagger:model CourtWithAvailability
type CourtWithAvailability struct {
	Court
	Available []Slot `json:"available"`
}

// ClubWithAvailability is the unit returned to callers and stored in the cache.
// swagger:model ClubWithAvailability
type ClubWithAvailability struct {
	Club
	Courts []CourtWithAvailability `json:"courts"`
}

// NewClubWithAvailability returns club with its courts attached.
// A nil courts slice is stored as empty so it encodes as [].
func NewClubWithAvailability(club Club, courts []CourtWithAvailability) ClubWithAvailability {
	if courts == nil {
		courts = []CourtWithAvailability{}
	}
	return ClubWithAvailability{Club: club, Courts: courts}
}

// NewCourtWithAvailability returns court with its slots attached.
func NewCourtWithAvailability(court Court, slots []Slot) CourtWithAvailability {
	if slots == nil {
		slots = []Slot{}
	}
	return CourtWithAvailability{Court: court, Available: slots}
}

func (c Club) MarshalJSON() ([]byte, error) {
	return mergeFields(c.Extra, map[string]any{"id": c.ID, "name": c.Name})
}

func (c *Club) UnmarshalJSON(data []byte) error {
	extra, err := splitFields(data, map[string]any{"id": &c.ID, "name": &c.Name})
	if err != nil {
		return fmt.Errorf("decode club: %w", err)
	}
	c.Extra = extra
	return nil
}

func (c Court) MarshalJSON() ([]byte, error) {
	return mergeFields(c.Extra, map[string]any{"id": c.ID})
}

func (c *Court) UnmarshalJSON(data []byte) error {
	extra, err := splitFields(data, map[string]any{"id": &c.ID})
	if err != nil {
		return fmt.Errorf("decode court: %w", err)
	}
	c.Extra = extra
	return nil
}

func (c ClubWithAvailability) MarshalJSON() ([]byte, error) {
	return mergeFields(c.Extra, map[string]any{"id": c.ID, "name": c.Name, "courts": c.Courts})
}

func (c *ClubWithAvailability) UnmarshalJSON(data []byte) error {
	extra, err := splitFields(data, map[string]any{"id": &c.ID, "name": &c.Name, "courts": &c.Courts})
	if err != nil {
		return fmt.Errorf("decode club: %w", err)
	}
	c.Extra = extra
	return nil
}

func (c CourtWithAvailability) MarshalJSON() ([]byte, error) {
	return mergeFields(c.Extra, map[string]any{"id": c.ID, "available": c.Available})
}

func (c *CourtWithAvailability) UnmarshalJSON(data []byte) error {
	extra, err := splitFields(data, map[string]any{"id": &c.ID, "available": &c.Available})
	if err != nil {
		return fmt.Errorf("decode court: %w", err)
	}
	c.Extra = extra
	return nil
}

// mergeFields encodes extra and known as one JSON object; known keys win.
func mergeFields(extra map[string]json.RawMessage, known map[string]any) ([]byte, error) {
	out := make(map[string]any, len(extra)+len(known))
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range known {
		out[k] = v
	}
	return json.Marshal(out)
}

// splitFields decodes the keys of known into their targets and returns the rest.
func splitFields(data []byte, known map[string]any) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for k, target := range known {
		raw, ok := all[k]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}
