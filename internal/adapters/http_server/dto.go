package httpserver

import (
	"fmt"
	"strings"

	"travel_planner/internal/domain"
)

const (
	maxDays      = 14
	maxMustVisit = 20
)

type coordDTO struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func (c *coordDTO) toDomain() (*domain.Coordinate, error) {
	if c == nil {
		return nil, nil
	}
	if c.Lat == nil || c.Lon == nil {
		return nil, fmt.Errorf("lat and lon are both required")
	}
	if *c.Lat < -90 || *c.Lat > 90 || *c.Lon < -180 || *c.Lon > 180 {
		return nil, fmt.Errorf("coordinate out of range")
	}
	return &domain.Coordinate{Lat: *c.Lat, Lon: *c.Lon}, nil
}

type bookedDTO struct {
	Name    string    `json:"name"`
	Address string    `json:"address"`
	Coord   *coordDTO `json:"coord,omitempty"`
}

type itineraryRequest struct {
	Destination       string     `json:"destination"`
	Tags              []string   `json:"tags"`
	Days              int        `json:"days"`
	Start             *coordDTO  `json:"start,omitempty"`
	Transport         string     `json:"transport"`
	AccommodationType string     `json:"accommodation_type"`
	Booked            *bookedDTO `json:"booked_accommodation,omitempty"`
	MustVisit         []string   `json:"must_visit"`
}

var transportModes = map[string]domain.TransportMode{
	"driving": domain.ModeDriving,
	"walking": domain.ModeWalking,
	"bicycle": domain.ModeBicycle,
	"transit": domain.ModeTransit,
	"taxi":    domain.ModeTaxi,
}

// toDomain validates the payload. The returned error text is safe to show to clients.
func (in itineraryRequest) toDomain() (domain.ItineraryRequest, error) {
	var out domain.ItineraryRequest

	out.Destination = strings.TrimSpace(in.Destination)
	if out.Destination == "" {
		return out, fmt.Errorf("destination is required")
	}
	if in.Days < 1 || in.Days > maxDays {
		return out, fmt.Errorf("days must be between 1 and %d", maxDays)
	}
	out.Days = in.Days

	mode := strings.ToLower(strings.TrimSpace(in.Transport))
	if mode == "" {
		mode = string(domain.ModeTransit)
	}
	m, ok := transportModes[mode]
	if !ok {
		return out, fmt.Errorf("transport must be one of driving, walking, bicycle, transit, taxi")
	}
	out.Mode = m

	start, err := in.Start.toDomain()
	if err != nil {
		return out, fmt.Errorf("start: %w", err)
	}
	out.Start = start

	if in.Booked != nil {
		c, err := in.Booked.Coord.toDomain()
		if err != nil {
			return out, fmt.Errorf("booked_accommodation.coord: %w", err)
		}
		if c == nil && strings.TrimSpace(in.Booked.Address) == "" {
			return out, fmt.Errorf("booked_accommodation needs an address or a coord")
		}
		out.Booked = &domain.BookedAccommodation{Name: in.Booked.Name, Address: in.Booked.Address, Coord: c}
	}

	if len(in.MustVisit) > maxMustVisit {
		return out, fmt.Errorf("at most %d must_visit entries", maxMustVisit)
	}
	out.MustVisit = in.MustVisit
	out.AccommodationType = strings.TrimSpace(in.AccommodationType)
	for _, t := range in.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out.Tags = append(out.Tags, t)
		}
	}
	return out, nil
}

type dayDTO struct {
	Day     int                       `json:"day"`
	Stops   []domain.RecommendedPlace `json:"stops"`
	Summary domain.DaySummary         `json:"summary"`
}

type itineraryResponse struct {
	Destination string   `json:"destination"`
	Degraded    bool     `json:"degraded"`
	Days        []dayDTO `json:"days"`
}

func toResponse(it domain.Itinerary) itineraryResponse {
	out := itineraryResponse{
		Destination: it.Destination,
		Degraded:    it.Degraded,
		Days:        make([]dayDTO, 0, len(it.Days)),
	}
	for _, d := range it.Days {
		stops := d.Stops
		if stops == nil {
			stops = []domain.RecommendedPlace{}
		}
		out.Days = append(out.Days, dayDTO{Day: d.Day, Stops: stops, Summary: d.Summary()})
	}
	return out
}
