package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
)

// CachedProvider is a read-through cache in front of a PlaceProvider.
// Only non-empty successful results are cached.
type CachedProvider struct {
	next     domain.PlaceProvider
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCachedProvider(next domain.PlaceProvider, c domain.Cache, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, cache: c, cacheTTL: ttl}
}

func SearchKey(q domain.SearchQuery) string {
	key := fmt.Sprintf("places:%s:%s", strings.ToLower(strings.TrimSpace(q.Text)), q.Category)
	if q.Near != nil {
		key += fmt.Sprintf(":%.3f,%.3f:%d", q.Near.Lat, q.Near.Lon, q.RadiusM)
	}
	return key
}

func (s *CachedProvider) Search(ctx context.Context, q domain.SearchQuery) ([]domain.PlaceCandidate, error) {
	key := SearchKey(q)
	var out []domain.PlaceCandidate
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	res, err := s.next.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(res) > 0 {
		if err := s.cache.Set(ctx, key, res, int(s.cacheTTL.Seconds())); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("search cache write failed")
		}
	}
	return res, nil
}

// Invalidate drops the cached result for q.
func (s *CachedProvider) Invalidate(ctx context.Context, q domain.SearchQuery) error {
	return s.cache.Del(ctx, SearchKey(q))
}

// CachedGeocoder layers the shared cache and the durable store in front of a remote geocoder.
// Either layer may be nil.
type CachedGeocoder struct {
	next     domain.Geocoder
	cache    domain.Cache
	store    domain.GeocodeStore
	cacheTTL time.Duration
}

func NewCachedGeocoder(next domain.Geocoder, c domain.Cache, store domain.GeocodeStore, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: c, store: store, cacheTTL: ttl}
}

func geocodeKey(address string) string {
	return "geo:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func (g *CachedGeocoder) Resolve(ctx context.Context, address string) (domain.Coordinate, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Coordinate{}, domain.ErrGeocodeNotFound
	}
	key := geocodeKey(address)

	var c domain.Coordinate
	if g.cache != nil {
		if ok, _ := g.cache.Get(ctx, key, &c); ok {
			return c, nil
		}
	}
	if g.store != nil {
		c, ok, err := g.store.GetGeocode(ctx, address)
		if err != nil {
			log.Warn().Err(err).Msg("geocode store read failed")
		} else if ok {
			g.remember(ctx, key, c)
			return c, nil
		}
	}
	if g.next == nil {
		return domain.Coordinate{}, domain.ErrGeocodeNotFound
	}

	c, err := g.next.Resolve(ctx, address)
	if err != nil {
		if !errors.Is(err, domain.ErrGeocodeNotFound) {
			observability.ObserveProviderFailure("geocode", err)
		}
		return domain.Coordinate{}, err
	}
	if g.store != nil {
		if err := g.store.PutGeocode(ctx, address, c); err != nil {
			log.Warn().Err(err).Msg("geocode store write failed")
		}
	}
	g.remember(ctx, key, c)
	return c, nil
}

func (g *CachedGeocoder) remember(ctx context.Context, key string, c domain.Coordinate) {
	if g.cache == nil {
		return
	}
	_ = g.cache.Set(ctx, key, c, int(g.cacheTTL.Seconds()))
}
