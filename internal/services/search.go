package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"courtfinder/internal/domain"
)

type searchService struct {
	cache      domain.AvailabilityCache
	aggregator domain.Aggregator
	logger     *slog.Logger
}

// NewSearchService returns the cached read path over aggregator.
func NewSearchService(cache domain.AvailabilityCache, aggregator domain.Aggregator, logger *slog.Logger) domain.SearchService {
	return &searchService{cache: cache, aggregator: aggregator, logger: logger}
}

// Search serves a non-empty cached value when there is one and otherwise
// aggregates and stores the result. An empty cached value counts as a miss,
// since empty may just mean the upstream could not be reached. Results with
// degraded upstream calls are returned but not stored, and so are results
// whose aggregation overlapped a cache invalidation.
func (s *searchService) Search(ctx context.Context, placeID string, date time.Time) ([]domain.ClubWithAvailability, error) {
	if placeID == "" {
		return nil, fmt.Errorf("%w: placeId is required", domain.ErrInvalidInput)
	}
	key := domain.CacheKey(placeID, date)
	if cached, ok := s.cache.Get(key); ok && len(cached) > 0 {
		s.logger.DebugContext(ctx, "availability cache hit", "key", key)
		return cached, nil
	}

	gen := s.cache.Generation()
	report, err := s.aggregator.Aggregate(ctx, placeID, date)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", key, err)
	}
	if report.Degraded > 0 {
		s.logger.WarnContext(ctx, "availability not cached, upstream calls degraded",
			"key", key,
			"degraded_calls", report.Degraded,
		)
		return report.Clubs, nil
	}
	if !s.cache.SetIfGeneration(key, report.Clubs, gen) {
		s.logger.DebugContext(ctx, "availability not cached, invalidated during aggregation", "key", key)
		return report.Clubs, nil
	}
	s.logger.DebugContext(ctx, "availability cached", "key", key, "clubs", len(report.Clubs))
	return report.Clubs, nil
}
