package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
)

const CandidatesPerDay = 12

type PlannerConfig struct {
	QueryConcurrency int
	QueryTimeout     time.Duration
	LodgingRadiusM   int
}

// Planner turns an ItineraryRequest into a day-by-day itinerary.
type Planner struct {
	provider   domain.PlaceProvider
	aggregator *Aggregator
	lodging    *LodgingPlanner
	timeout    time.Duration
}

func NewPlanner(p domain.PlaceProvider, g domain.Geocoder, misses domain.MissLog, cfg PlannerConfig) *Planner {
	agg := NewAggregator(p, misses, cfg.QueryConcurrency, cfg.QueryTimeout)
	return &Planner{
		provider:   p,
		aggregator: agg,
		lodging:    NewLodgingPlanner(p, g, cfg.LodgingRadiusM, agg.timeout),
		timeout:    agg.timeout,
	}
}

// Generate never returns an error. A failing day becomes an empty day and a
// failure of the whole pipeline yields an itinerary with no days; both are
// reported through Degraded.
func (s *Planner) Generate(ctx context.Context, req domain.ItineraryRequest) (it domain.Itinerary) {
	it = domain.Itinerary{Destination: req.Destination, Days: []domain.DayItinerary{}}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("destination", req.Destination).Msg("itinerary generation failed")
			observability.ObserveFallback("itinerary_failure")
			it = domain.Itinerary{Destination: req.Destination, Days: []domain.DayItinerary{}, Degraded: true}
		}
		observability.ObserveItinerary(it.Degraded)
	}()
	if req.Days <= 0 {
		return it
	}

	pool := s.aggregator.Aggregate(ctx, req.Destination, req.Tags, req.Days*CandidatesPerDay)
	for _, p := range pool {
		if isDegradedSource(p.Source) {
			it.Degraded = true
			break
		}
	}

	pinned := s.resolveMustVisits(ctx, req)
	pools := GroupByBucket(withoutPinned(pool, pinned))
	start := startCoordinate(req, pool)
	lreq := LodgingRequest{Destination: req.Destination, Type: req.AccommodationType, Booked: req.Booked, Mode: req.Mode}

	used := map[string]struct{}{}
	var prevCheckIn *domain.RecommendedPlace
	for d := 0; d < req.Days; d++ {
		in := dayInput{
			day:         d,
			pools:       pools,
			used:        used,
			pinned:      pinned[d],
			start:       start,
			prevCheckIn: prevCheckIn,
			mode:        req.Mode,
			lodging:     lreq,
		}
		stops, next, err := s.generateDay(ctx, in)
		if err != nil {
			log.Warn().Err(err).Int("day", d).Str("destination", req.Destination).Msg("day generation failed; leaving day empty")
			observability.ObserveFallback("day_failure")
			it.Degraded = true
			it.Days = append(it.Days, domain.DayItinerary{Day: d, Stops: []domain.RecommendedPlace{}})
			prevCheckIn = nil
			continue
		}
		used = next

		day := domain.DayItinerary{Day: d, Stops: stops}
		if ci := day.CheckIn(); ci != nil {
			c := *ci
			prevCheckIn = &c
			start = c.Coord
			if c.Accommodation.NeedsManualSearch {
				it.Degraded = true
			}
		}
		it.Days = append(it.Days, day)
	}
	return it
}

type dayInput struct {
	day         int
	pools       map[domain.Bucket][]domain.RecommendedPlace
	used        map[string]struct{}
	pinned      []domain.RecommendedPlace
	start       domain.Coordinate
	prevCheckIn *domain.RecommendedPlace
	mode        domain.TransportMode
	lodging     LodgingRequest
}

// generateDay converts panics into errors so one bad day cannot take the trip down.
func (s *Planner) generateDay(ctx context.Context, in dayInput) (stops []domain.RecommendedPlace, used map[string]struct{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			stops, used, err = nil, nil, fmt.Errorf("day %d: panic: %v", in.day, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	regular, used := AllocateDay(in.pools, in.used, in.pinned)
	ordered := OptimizeDay(regular, in.start, in.mode)
	if in.prevCheckIn != nil {
		ordered = PrependCheckOut(ordered, *in.prevCheckIn, in.day)
	}

	anchor := in.start
	if n := len(regular); n > 0 {
		anchor = ordered[len(ordered)-1].Coord
	}
	return s.lodging.AppendCheckIn(ctx, ordered, in.day, in.lodging, anchor), used, nil
}

// resolveMustVisits looks every requested name up and spreads the hits round-robin over the days.
// Lookups share the aggregator's concurrency limit. Names the provider cannot find are dropped.
func (s *Planner) resolveMustVisits(ctx context.Context, req domain.ItineraryRequest) [][]domain.RecommendedPlace {
	out := make([][]domain.RecommendedPlace, req.Days)
	if s.provider == nil {
		return out
	}
	var names []string
	for _, raw := range req.MustVisit {
		if name := strings.TrimSpace(raw); name != "" {
			names = append(names, name)
		}
	}

	found := make([]*domain.RecommendedPlace, len(names))
	g := new(errgroup.Group)
	g.SetLimit(s.aggregator.concurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if p, ok := s.lookupMustVisit(ctx, req, name); ok {
				found[i] = &p
			}
			return nil
		})
	}
	_ = g.Wait()

	i := 0
	seen := map[string]struct{}{}
	for _, p := range found {
		if p == nil {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		d := i % req.Days
		if len(out[d]) < MaxStopsPerDay {
			out[d] = append(out[d], *p)
		}
		i++
	}
	return out
}

func (s *Planner) lookupMustVisit(ctx context.Context, req domain.ItineraryRequest, name string) (domain.RecommendedPlace, bool) {
	qctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	cands, err := s.provider.Search(qctx, domain.SearchQuery{Text: strings.TrimSpace(req.Destination + " " + name)})
	if err != nil {
		log.Warn().Err(err).Str("name", name).Msg("must-visit lookup failed; skipping")
		observability.ObserveProviderFailure("places", err)
		return domain.RecommendedPlace{}, false
	}
	if len(cands) == 0 {
		log.Info().Str("name", name).Msg("must-visit not found; skipping")
		return domain.RecommendedPlace{}, false
	}
	p := toPlace(cands[0], req.Tags, domain.SourceProvider)
	p.Tags = append(p.Tags, domain.TagMustVisit)
	return p, true
}

// withoutPinned removes pool entries that duplicate a pinned place by id or name.
func withoutPinned(pool []domain.RecommendedPlace, pinned [][]domain.RecommendedPlace) []domain.RecommendedPlace {
	ids, names := map[string]struct{}{}, map[string]struct{}{}
	for _, day := range pinned {
		for _, p := range day {
			ids[p.ID] = struct{}{}
			names[p.Name] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return pool
	}
	out := make([]domain.RecommendedPlace, 0, len(pool))
	for _, p := range pool {
		if _, ok := ids[p.ID]; ok {
			continue
		}
		if _, ok := names[p.Name]; ok {
			continue
		}
		out = append(out, p)
	}
	return out
}

// startCoordinate: explicit start, else the region center, else the first candidate.
func startCoordinate(req domain.ItineraryRequest, pool []domain.RecommendedPlace) domain.Coordinate {
	if req.Start != nil {
		return *req.Start
	}
	if c, ok := RegionCenter(req.Destination); ok {
		return c
	}
	if len(pool) > 0 {
		return pool[0].Coord
	}
	return DefaultCenter
}
