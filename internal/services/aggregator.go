package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"courtfinder/internal/domain"
)

type aggregator struct {
	upstream       domain.UpstreamClient
	maxConcurrency int
	logger         *slog.Logger
}

// NewAggregator returns an Aggregator over upstream. maxConcurrency bounds the
// upstream calls in flight for one query; zero or less means unbounded.
func NewAggregator(upstream domain.UpstreamClient, maxConcurrency int, logger *slog.Logger) domain.Aggregator {
	return &aggregator{upstream: upstream, maxConcurrency: maxConcurrency, logger: logger}
}

// Aggregate lists the clubs for placeID, then every club's courts, then every
// court's slots on date, fanning out concurrently at each level. Upstream
// failures have already been degraded to empty data by the client; any error
// returned here is internal and fails the whole query.
func (a *aggregator) Aggregate(ctx context.Context, placeID string, date time.Time) (domain.AggregateReport, error) {
	var (
		degraded atomic.Int32
		sem      *semaphore.Weighted
	)
	if a.maxConcurrency > 0 {
		sem = semaphore.NewWeighted(int64(a.maxConcurrency))
	}

	clubs, err := limited(ctx, sem, &degraded, func(ctx context.Context) domain.Fetched[[]domain.Club] {
		return a.upstream.ListClubs(ctx, placeID)
	})
	if err != nil {
		return domain.AggregateReport{}, fmt.Errorf("%w: %w", domain.ErrAggregation, err)
	}
	if len(clubs) == 0 {
		if err := ctx.Err(); err != nil {
			return domain.AggregateReport{}, fmt.Errorf("%w: %w", domain.ErrAggregation, err)
		}
		return domain.AggregateReport{Clubs: []domain.ClubWithAvailability{}, Degraded: int(degraded.Load())}, nil
	}

	out := make([]domain.ClubWithAvailability, len(clubs))
	g, gctx := errgroup.WithContext(ctx)
	for i, club := range clubs {
		g.Go(recovered(func() error {
			courts, err := a.courtsWithAvailability(gctx, sem, club, date, &degraded)
			if err != nil {
				return fmt.Errorf("club %d: %w", club.ID, err)
			}
			out[i] = domain.NewClubWithAvailability(club, courts)
			return nil
		}))
	}
	if err := g.Wait(); err != nil {
		return domain.AggregateReport{}, fmt.Errorf("%w: %w", domain.ErrAggregation, err)
	}
	// A cancelled caller turns every pending leaf into an empty result; that
	// is not a usable answer.
	if err := ctx.Err(); err != nil {
		return domain.AggregateReport{}, fmt.Errorf("%w: %w", domain.ErrAggregation, err)
	}

	report := domain.AggregateReport{Clubs: out, Degraded: int(degraded.Load())}
	a.logger.DebugContext(ctx, "availability aggregated",
		"place_id", placeID,
		"date", date.Format(domain.DateLayout),
		"clubs", len(out),
		"degraded_calls", report.Degraded,
	)
	return report, nil
}

func (a *aggregator) courtsWithAvailability(ctx context.Context, sem *semaphore.Weighted, club domain.Club, date time.Time, degraded *atomic.Int32) ([]domain.CourtWithAvailability, error) {
	courts, err := limited(ctx, sem, degraded, func(ctx context.Context) domain.Fetched[[]domain.Court] {
		return a.upstream.ListCourts(ctx, club.ID)
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.CourtWithAvailability, len(courts))
	g, gctx := errgroup.WithContext(ctx)
	for i, court := range courts {
		g.Go(recovered(func() error {
			slots, err := limited(gctx, sem, degraded, func(ctx context.Context) domain.Fetched[[]domain.Slot] {
				return a.upstream.ListAvailableSlots(ctx, club.ID, court.ID, date)
			})
			if err != nil {
				return fmt.Errorf("court %d: %w", court.ID, err)
			}
			out[i] = domain.NewCourtWithAvailability(court, slots)
			return nil
		}))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// limited runs one upstream call holding a slot of sem (when set) and counts
// it in degraded if the client gave up on it.
func limited[T any](ctx context.Context, sem *semaphore.Weighted, degraded *atomic.Int32, call func(context.Context) domain.Fetched[T]) (T, error) {
	if sem != nil {
		if err := sem.Acquire(ctx, 1); err != nil {
			var zero T
			return zero, err
		}
		defer sem.Release(1)
	}
	res := call(ctx)
	if !res.OK() {
		degraded.Add(1)
	}
	return res.Data, nil
}

// recovered turns a panic in a fan-out task into an error for the group.
func recovered(fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in fan-out task: %v", r)
			}
		}()
		return fn()
	}
}
