package domain

import (
	"context"
	"time"
)

// Fetched is the outcome of one upstream call. Data is always usable: when the
// call could not be completed Degraded holds the reason and Data is empty.
type Fetched[T any] struct {
	Data     T
	Degraded error
}

// OK reports whether the upstream call succeeded.
func (f Fetched[T]) OK() bool { return f.Degraded == nil }

// Ok wraps a successful upstream result.
func Ok[T any](data T) Fetched[T] {
	return Fetched[T]{Data: data}
}

// Degrade returns a result carrying empty data and the reason it could not be fetched.
func Degrade[T any](empty T, reason error) Fetched[T] {
	return Fetched[T]{Data: empty, Degraded: reason}
}

// UpstreamClient is the port to the external club/court/slot service.
// Implementations never return errors: failures degrade to empty data.
type UpstreamClient interface {
	ListClubs(ctx context.Context, placeID string) Fetched[[]Club]
	ListCourts(ctx context.Context, clubID int) Fetched[[]Court]
	ListAvailableSlots(ctx context.Context, clubID, courtID int, date time.Time) Fetched[[]Slot]
}

// AggregateReport is the merged availability for one query plus the number of
// upstream calls that degraded to empty while building it.
type AggregateReport struct {
	Clubs    []ClubWithAvailability
	Degraded int
}

// Aggregator assembles per-court availability for a place and date.
type Aggregator interface {
	Aggregate(ctx context.Context, placeID string, date time.Time) (AggregateReport, error)
}

// SearchService answers availability queries, consulting the cache first.
type SearchService interface {
	Search(ctx context.Context, placeID string, date time.Time) ([]ClubWithAvailability, error)
}

// AvailabilityCache stores aggregated results keyed by CacheKey.
// Entries are replaced or deleted whole, never patched.
type AvailabilityCache interface {
	Get(key string) ([]ClubWithAvailability, bool)
	Set(key string, value []ClubWithAvailability)
	Delete(key string)
	Clear()
	Len() int
	Keys() []string
	// DeleteWhere removes every entry for which match returns true and returns the removed keys.
	DeleteWhere(match func(key string, value []ClubWithAvailability) bool) []string
	// Generation changes on every invalidation (Delete, DeleteWhere, Clear).
	Generation() uint64
	// SetIfGeneration stores value only if no invalidation happened since gen
	// was read. It reports whether the value was stored.
	SetIfGeneration(key string, value []ClubWithAvailability, gen uint64) bool
}

// CacheKey derives the cache key for a query: placeID + "-" + YYYY-MM-DD.
func CacheKey(placeID string, date time.Time) string {
	return placeID + "-" + date.Format(DateLayout)
}

// ParseCacheKey splits a key produced by CacheKey. The place id may itself
// contain dashes, so the date is taken from the fixed-width suffix.
func ParseCacheKey(key string) (placeID, date string, ok bool) {
	n := len(DateLayout)
	if len(key) < n+1 || key[len(key)-n-1] != '-' {
		return "", "", false
	}
	date = key[len(key)-n:]
	if _, err := time.Parse(DateLayout, date); err != nil {
		return "", "", false
	}
	return key[:len(key)-n-1], date, true
}

// ContainsClub reports whether clubID is one of the clubs in a cached payload.
func ContainsClub(clubs []ClubWithAvailability, clubID int) bool {
	for _, c := range clubs {
		if c.ID == clubID {
			return true
		}
	}
	return false
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
