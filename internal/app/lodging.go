package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
)

const (
	DefaultLodgingRadiusM = 5000
	defaultLodgingType    = "hotel"
)

// LodgingPlanner attaches the nightly check-in and the next morning's check-out.
type LodgingPlanner struct {
	provider domain.PlaceProvider
	geocoder domain.Geocoder // optional
	radiusM  int
	timeout  time.Duration
}

func NewLodgingPlanner(p domain.PlaceProvider, g domain.Geocoder, radiusM int, timeout time.Duration) *LodgingPlanner {
	if radiusM <= 0 {
		radiusM = DefaultLodgingRadiusM
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &LodgingPlanner{provider: p, geocoder: g, radiusM: radiusM, timeout: timeout}
}

// LodgingRequest carries the per-trip lodging inputs.
type LodgingRequest struct {
	Destination string
	Type        string
	Booked      *domain.BookedAccommodation
	Mode        domain.TransportMode
}

// AppendCheckIn appends a check-in event to stops. The lodging is the booked one
// when given, otherwise the best-rated search hit within the radius of anchor,
// otherwise a placeholder asking the traveller to search manually. It never fails.
func (l *LodgingPlanner) AppendCheckIn(ctx context.Context, stops []domain.RecommendedPlace, day int, req LodgingRequest, anchor domain.Coordinate) []domain.RecommendedPlace {
	var lodging domain.RecommendedPlace
	if req.Booked != nil {
		lodging = l.booked(ctx, req.Booked, anchor)
	} else {
		found, err := l.search(ctx, req, anchor)
		if err != nil {
			log.Info().Err(err).Int("day", day).Str("destination", req.Destination).Msg("no lodging found; using placeholder")
			observability.ObserveFallback("lodging_placeholder")
			lodging = placeholderLodging(req, anchor)
		} else {
			lodging = found
		}
	}

	seg := EstimateSegment(anchor, lodging.Coord, req.Mode)
	lodging.Segment = &seg
	lodging.ID = fmt.Sprintf("checkin-d%d-%s", day, lodging.ID)
	lodging.Accommodation.Event = domain.CheckIn
	lodging.VisitMinutes = VisitDuration(lodging)

	out := make([]domain.RecommendedPlace, 0, len(stops)+1)
	out = append(out, stops...)
	return append(out, lodging)
}

// PrependCheckOut puts the check-out from the previous night's lodging at the head of stops.
// The check-out shares the check-in's name and coordinates and has no inbound segment.
func PrependCheckOut(stops []domain.RecommendedPlace, prevCheckIn domain.RecommendedPlace, day int) []domain.RecommendedPlace {
	co := prevCheckIn
	co.ID = fmt.Sprintf("checkout-d%d-%s", day, lodgingKey(prevCheckIn.ID))
	co.Segment = nil
	co.Tags = append([]string(nil), prevCheckIn.Tags...)
	if prevCheckIn.Accommodation != nil {
		info := *prevCheckIn.Accommodation
		info.Event = domain.CheckOut
		co.Accommodation = &info
	} else {
		co.Accommodation = &domain.AccommodationInfo{Event: domain.CheckOut}
	}
	co.VisitMinutes = VisitDuration(co)

	out := make([]domain.RecommendedPlace, 0, len(stops)+1)
	out = append(out, co)
	return append(out, stops...)
}

// lodgingKey strips the "checkin-dN-" prefix.
func lodgingKey(id string) string {
	if !strings.HasPrefix(id, "checkin-d") {
		return id
	}
	if i := strings.IndexByte(id[len("checkin-d"):], '-'); i >= 0 {
		return id[len("checkin-d")+i+1:]
	}
	return id
}

func (l *LodgingPlanner) booked(ctx context.Context, b *domain.BookedAccommodation, anchor domain.Coordinate) domain.RecommendedPlace {
	name := strings.TrimSpace(b.Name)
	if name == "" {
		name = "Booked accommodation"
	}
	p := domain.RecommendedPlace{
		ID:       "booked",
		Name:     name,
		Category: "accommodation",
		Bucket:   domain.BucketAccommodation,
		Address:  b.Address,
		Tags:     []string{domain.TagBookedLodging},
		Source:   domain.SourceBooking,
		Accommodation: &domain.AccommodationInfo{
			Address: b.Address,
			Booked:  true,
		},
	}

	switch {
	case b.Coord != nil:
		p.Coord = *b.Coord
	case l.geocoder != nil && strings.TrimSpace(b.Address) != "":
		gctx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()
		c, err := l.geocoder.Resolve(gctx, b.Address)
		if err != nil {
			log.Warn().Err(err).Str("address", b.Address).Msg("booked lodging geocode failed; using last stop")
			observability.ObserveFallback("geocode_fallback")
			p.Coord = anchor
		} else {
			p.Coord = c
		}
	default:
		observability.ObserveFallback("geocode_fallback")
		p.Coord = anchor
	}
	return p
}

func (l *LodgingPlanner) search(ctx context.Context, req LodgingRequest, anchor domain.Coordinate) (domain.RecommendedPlace, error) {
	if l.provider == nil {
		return domain.RecommendedPlace{}, domain.ErrNoLodging
	}
	typ := lodgingType(req.Type)
	sctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	cands, err := l.provider.Search(sctx, domain.SearchQuery{
		Text:     strings.TrimSpace(req.Destination + " " + typ),
		Category: domain.BucketAccommodation,
		Near:     &anchor,
		RadiusM:  l.radiusM,
	})
	if err != nil {
		return domain.RecommendedPlace{}, errors.Join(domain.ErrNoLodging, err)
	}

	maxKm := float64(l.radiusM) / 1000
	type hit struct {
		c  domain.PlaceCandidate
		km float64
	}
	var hits []hit
	for _, c := range cands {
		km := domain.HaversineKm(anchor, domain.Coordinate{Lat: c.Lat, Lon: c.Lon})
		if km <= maxKm {
			hits = append(hits, hit{c, km})
		}
	}
	if len(hits) == 0 {
		return domain.RecommendedPlace{}, domain.ErrNoLodging
	}
	rating := func(c domain.PlaceCandidate) float64 {
		if c.Rating == nil {
			return 0
		}
		return *c.Rating
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if ri, rj := rating(hits[i].c), rating(hits[j].c); ri != rj {
			return ri > rj
		}
		return hits[i].km < hits[j].km
	})

	best := toPlace(hits[0].c, nil, domain.SourceProvider)
	best.Bucket = domain.BucketAccommodation
	best.Tags = append(best.Tags, domain.TagSearchedLodging)
	best.Accommodation = &domain.AccommodationInfo{Type: typ, Address: best.Address}
	return best, nil
}

func placeholderLodging(req LodgingRequest, anchor domain.Coordinate) domain.RecommendedPlace {
	typ := lodgingType(req.Type)
	dest := strings.TrimSpace(req.Destination)
	if dest == "" {
		dest = "destination"
	}
	return domain.RecommendedPlace{
		ID:       uuid.NewString(),
		Name:     fmt.Sprintf("%s %s (search manually)", dest, typ),
		Category: "accommodation",
		Bucket:   domain.BucketAccommodation,
		Coord:    anchor,
		Tags:     []string{domain.TagSearchManually},
		Source:   domain.SourceFallback,
		Accommodation: &domain.AccommodationInfo{
			Type:              typ,
			NeedsManualSearch: true,
		},
	}
}

func lodgingType(t string) string {
	if t = strings.TrimSpace(t); t == "" {
		return defaultLodgingType
	}
	return t
}
