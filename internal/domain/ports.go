package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrRateLimited         = errors.New("rate limited")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrGeocodeNotFound     = errors.New("geocode: no result")
	ErrNoLodging           = errors.New("no lodging found")
)

type SearchQuery struct {
	Text     string
	Category Bucket // empty means no filter
	Near     *Coordinate
	RadiusM  int
}

// PlaceProvider is the external point-of-interest search service. Calls may fail per query.
type PlaceProvider interface {
	Search(ctx context.Context, q SearchQuery) ([]PlaceCandidate, error)
}

type Geocoder interface {
	Resolve(ctx context.Context, address string) (Coordinate, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// GeocodeStore persists address -> coordinate lookups across restarts.
type GeocodeStore interface {
	GetGeocode(ctx context.Context, address string) (Coordinate, bool, error)
	PutGeocode(ctx context.Context, address string, c Coordinate) error
}

// MissLog records provider failures for later inspection.
type MissLog interface {
	LogMiss(ctx context.Context, query string, status int, reason string) error
}
