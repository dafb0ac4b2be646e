package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/domain"
)

// PrefetchService refreshes the cached search results of a region ahead of traffic.
type PrefetchService struct {
	provider *CachedProvider
	misses   domain.MissLog // optional
}

func NewPrefetchService(p *CachedProvider, misses domain.MissLog) *PrefetchService {
	return &PrefetchService{provider: p, misses: misses}
}

// WarmRegion re-fetches every aggregation query for the region and returns how
// many results were cached. Not-found and unauthorized queries are logged as
// misses and skipped; anything else is returned.
func (s *PrefetchService) WarmRegion(ctx context.Context, regionName string) (int, error) {
	total := 0
	for _, text := range BuildQueries(regionName) {
		q := domain.SearchQuery{Text: text}
		// evict first so a stale entry is never served after a refresh
		if err := s.provider.Invalidate(ctx, q); err != nil {
			log.Debug().Err(err).Str("query", text).Msg("invalidate failed")
		}

		res, err := s.provider.Search(ctx, q)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				s.logMiss(ctx, text, 404, "not found")
				continue
			case errors.Is(err, domain.ErrUnauthorized):
				s.logMiss(ctx, text, 401, "unauthorized")
				continue
			}
			return total, fmt.Errorf("warm %s: %w", regionName, err)
		}
		if len(res) == 0 {
			s.logMiss(ctx, text, 200, "empty")
		}
		total += len(res)
	}
	return total, nil
}

func (s *PrefetchService) logMiss(ctx context.Context, query string, status int, reason string) {
	if s.misses == nil {
		return
	}
	if err := s.misses.LogMiss(ctx, query, status, reason); err != nil {
		log.Warn().Err(err).Str("query", query).Msg("miss log write failed")
	}
}
