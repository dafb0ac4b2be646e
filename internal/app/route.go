package app

import (
	"math"
	"strings"

	"travel_planner/internal/domain"
)

// Travel estimate constants. Costs are in KRW.
const (
	walkingKmh       = 4.0
	bicycleKmh       = 15.0
	drivingMinPerKm  = 2.0 // 30 km/h urban average
	transitFactor    = 1.8
	taxiFactor       = 0.9
	fuelKRWPerKm     = 150
	transitBaseFare  = 1500
	transitBaseKm    = 10.0
	transitStepKm    = 5.0
	transitStepFare  = 100
	taxiBaseFare     = 4800
	taxiKRWPerKm     = 1000
	checkInMinutes   = 30
	checkOutMinutes  = 20
	defaultVisitMins = 60
)

// EstimateSegment estimates travel between two points. Unknown modes are priced as taxi.
func EstimateSegment(from, to domain.Coordinate, mode domain.TransportMode) domain.TravelSegment {
	km := domain.HaversineKm(from, to)
	drive := km * drivingMinPerKm

	var mins float64
	cost := 0
	switch mode {
	case domain.ModeWalking:
		mins = km / walkingKmh * 60
	case domain.ModeBicycle:
		mins = km / bicycleKmh * 60
	case domain.ModeDriving:
		mins = drive
		cost = int(math.Round(km * fuelKRWPerKm))
	case domain.ModeTransit:
		mins = drive * transitFactor
		if km > 0 {
			cost = transitBaseFare
			if km > transitBaseKm {
				cost += int(math.Ceil((km-transitBaseKm)/transitStepKm)) * transitStepFare
			}
		}
	default:
		mode = domain.ModeTaxi
		mins = drive * taxiFactor
		if km > 0 {
			// metered fares are rounded to 100 KRW
			cost = int(math.Round((taxiBaseFare+km*taxiKRWPerKm)/100) * 100)
		}
	}

	d := int(math.Round(mins))
	if d == 0 && km > 0 {
		d = 1
	}
	return domain.TravelSegment{
		DistanceKm:      math.Round(km*100) / 100,
		DurationMinutes: d,
		Cost:            cost,
		Mode:            mode,
	}
}

type visitRule struct {
	keywords []string
	minutes  int
}

// Category-label rules win over the bucket table; the place name is never consulted.
var visitRules = []visitRule{
	{[]string{"theme park", "테마파크", "water park", "워터파크", "amusement", "놀이공원", "experience", "체험"}, 180},
	{[]string{"museum", "박물관", "미술관", "gallery", "aquarium", "아쿠아리움"}, 90},
}

var visitByBucket = map[domain.Bucket]int{
	domain.BucketCulture:    75,
	domain.BucketAttraction: 60,
	domain.BucketFood:       90,
	domain.BucketCafe:       45,
	domain.BucketShopping:   120,
}

// VisitDuration estimates minutes spent at a stop.
func VisitDuration(p domain.RecommendedPlace) int {
	if a := p.Accommodation; a != nil {
		if a.Event == domain.CheckOut {
			return checkOutMinutes
		}
		return checkInMinutes
	}
	label := strings.ToLower(p.Category)
	for _, r := range visitRules {
		for _, kw := range r.keywords {
			if strings.Contains(label, kw) {
				return r.minutes
			}
		}
	}
	if m, ok := visitByBucket[p.Bucket]; ok {
		return m
	}
	return defaultVisitMins
}

// OptimizeDay orders stops by repeatedly visiting the nearest unvisited stop,
// starting from start. Ties go to the stop that came first in the input. Each
// returned stop carries the segment from its predecessor and its visit duration.
func OptimizeDay(stops []domain.RecommendedPlace, start domain.Coordinate, mode domain.TransportMode) []domain.RecommendedPlace {
	remaining := make([]domain.RecommendedPlace, len(stops))
	copy(remaining, stops)
	out := make([]domain.RecommendedPlace, 0, len(stops))

	cur := start
	for len(remaining) > 0 {
		best, bestKm := 0, math.Inf(1)
		for i, p := range remaining {
			if d := domain.HaversineKm(cur, p.Coord); d < bestKm {
				best, bestKm = i, d
			}
		}
		p := remaining[best]
		remaining = append(remaining[:best], remaining[best+1:]...)

		seg := EstimateSegment(cur, p.Coord, mode)
		p.Segment = &seg
		p.VisitMinutes = VisitDuration(p)
		out = append(out, p)
		cur = p.Coord
	}
	return out
}
