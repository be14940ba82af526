package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"courtfinder/internal/domain"
)

// testLogger is a no-op logger so tests don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var errUpstreamDown = errors.New("upstream unavailable")

type slotKey struct{ club, court int }

// fakeUpstream is an in-memory UpstreamClient that counts calls.
type fakeUpstream struct {
	clubs         map[string][]domain.Club
	courts        map[int][]domain.Court
	slots         map[slotKey][]domain.Slot
	degradeCourts map[int]bool
	degradeSlots  map[slotKey]bool
	panicOnCourts bool
	delay         time.Duration

	mu          sync.Mutex
	clubCalls   int
	courtCalls  int
	slotCalls   int
	slotDates   []string
	inFlight    int
	maxInFlight int
}

func (f *fakeUpstream) enter() {
	f.mu.Lock()
	f.inFlight++
	f.maxInFlight = max(f.maxInFlight, f.inFlight)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
}

func (f *fakeUpstream) leave() {
	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()
}

func (f *fakeUpstream) ListClubs(ctx context.Context, placeID string) domain.Fetched[[]domain.Club] {
	f.enter()
	defer f.leave()
	f.mu.Lock()
	f.clubCalls++
	f.mu.Unlock()
	return domain.Ok(f.clubs[placeID])
}

func (f *fakeUpstream) ListCourts(ctx context.Context, clubID int) domain.Fetched[[]domain.Court] {
	f.enter()
	defer f.leave()
	f.mu.Lock()
	f.courtCalls++
	f.mu.Unlock()
	if f.panicOnCourts {
		panic("unexpected court payload")
	}
	if f.degradeCourts[clubID] {
		return domain.Degrade([]domain.Court{}, errUpstreamDown)
	}
	return domain.Ok(f.courts[clubID])
}

func (f *fakeUpstream) ListAvailableSlots(ctx context.Context, clubID, courtID int, date time.Time) domain.Fetched[[]domain.Slot] {
	f.enter()
	defer f.leave()
	f.mu.Lock()
	f.slotCalls++
	f.slotDates = append(f.slotDates, date.Format(domain.DateLayout))
	f.mu.Unlock()
	k := slotKey{clubID, courtID}
	if f.degradeSlots[k] {
		return domain.Degrade([]domain.Slot{}, errUpstreamDown)
	}
	return domain.Ok(f.slots[k])
}

// fakeAggregator returns a fixed report and counts calls.
type fakeAggregator struct {
	report domain.AggregateReport
	err    error
	calls  int
}

func (f *fakeAggregator) Aggregate(ctx context.Context, placeID string, date time.Time) (domain.AggregateReport, error) {
	f.calls++
	return f.report, f.err
}

// fakePublisher records published notifications.
type fakePublisher struct {
	err       error
	published []domain.Notification
}

func (f *fakePublisher) Publish(ctx context.Context, n domain.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, n)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func club(id int) domain.Club { return domain.Club{ID: id, Name: "Club"} }

func court(id int) domain.Court { return domain.Court{ID: id} }

func slot(datetime string) domain.Slot {
	return domain.Slot{Price: 1200, Duration: 60, Datetime: datetime, Start: datetime[11:16], End: "23:00", Priority: 1}
}

func cached(ids ...int) []domain.ClubWithAvailability {
	out := make([]domain.ClubWithAvailability, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.NewClubWithAvailability(club(id), nil))
	}
	return out
}

func mustDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
