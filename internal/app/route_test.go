package app_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel_planner/internal/app"
	"travel_planner/internal/domain"
)

func scattered(n int) []domain.RecommendedPlace {
	out := make([]domain.RecommendedPlace, 0, n)
	for i := 0; i < n; i++ {
		p := place(fmt.Sprintf("s%d", i), domain.BucketAttraction, 4, 0)
		// deterministic pseudo-scatter around Jeju
		p.Coord = domain.Coordinate{
			Lat: 33.25 + math.Mod(float64(i*37), 23)/100,
			Lon: 126.30 + math.Mod(float64(i*53), 41)/100,
		}
		out = append(out, p)
	}
	return out
}

func TestOptimizeDay_GreedyNearestNeighbor(t *testing.T) {
	start := domain.Coordinate{Lat: 33.4996, Lon: 126.5312}
	stops := scattered(9)

	got := app.OptimizeDay(stops, start, domain.ModeDriving)
	require.Len(t, got, len(stops))

	cur := start
	remaining := map[string]domain.Coordinate{}
	for _, s := range stops {
		remaining[s.ID] = s.Coord
	}
	for _, s := range got {
		chosen := domain.HaversineKm(cur, s.Coord)
		for id, c := range remaining {
			assert.LessOrEqual(t, chosen, domain.HaversineKm(cur, c), "step to %s skipped nearer %s", s.ID, id)
		}
		require.NotNil(t, s.Segment)
		assert.Equal(t, app.EstimateSegment(cur, s.Coord, domain.ModeDriving), *s.Segment)
		assert.Positive(t, s.VisitMinutes)
		delete(remaining, s.ID)
		cur = s.Coord
	}
	assert.Empty(t, remaining)
	assert.Nil(t, stops[0].Segment, "input must not be modified")
}

func TestOptimizeDay_Empty(t *testing.T) {
	assert.Empty(t, app.OptimizeDay(nil, app.DefaultCenter, domain.ModeWalking))
}

func TestEstimateSegment_Modes(t *testing.T) {
	a := domain.Coordinate{Lat: 37.5665, Lon: 126.9780}
	near := domain.Coordinate{Lat: 37.5845, Lon: 126.9780} // ~2 km north
	far := domain.Coordinate{Lat: 37.7465, Lon: 126.9780}  // ~20 km north

	walk := app.EstimateSegment(a, near, domain.ModeWalking)
	assert.Equal(t, 0, walk.Cost)
	assert.InDelta(t, 30, walk.DurationMinutes, 1)

	bike := app.EstimateSegment(a, near, domain.ModeBicycle)
	assert.InDelta(t, 8, bike.DurationMinutes, 1)
	assert.Equal(t, 0, bike.Cost)

	drive := app.EstimateSegment(a, near, domain.ModeDriving)
	assert.InDelta(t, 4, drive.DurationMinutes, 1)
	assert.InDelta(t, 300, drive.Cost, 5)

	transit := app.EstimateSegment(a, near, domain.ModeTransit)
	assert.InDelta(t, 7, transit.DurationMinutes, 1)
	assert.Equal(t, 1500, transit.Cost)
	assert.Greater(t, app.EstimateSegment(a, far, domain.ModeTransit).Cost, 1500)

	taxi := app.EstimateSegment(a, near, domain.ModeTaxi)
	assert.Equal(t, domain.ModeTaxi, taxi.Mode)
	assert.Equal(t, 6800, taxi.Cost)

	other := app.EstimateSegment(a, near, "hovercraft")
	assert.Equal(t, taxi, other)

	zero := app.EstimateSegment(a, a, domain.ModeTransit)
	assert.Equal(t, domain.TravelSegment{Mode: domain.ModeTransit}, zero)
}

func TestVisitDuration(t *testing.T) {
	cases := []struct {
		p    domain.RecommendedPlace
		want int
	}{
		{domain.RecommendedPlace{Bucket: domain.BucketCulture, Category: "문화,예술 > 문화시설 > 박물관"}, 90},
		{domain.RecommendedPlace{Bucket: domain.BucketCulture, Category: "문화,예술 > 사찰"}, 75},
		{domain.RecommendedPlace{Bucket: domain.BucketAttraction, Category: "여행 > 테마파크"}, 180},
		{domain.RecommendedPlace{Bucket: domain.BucketAttraction, Name: "Jeju Theme Park"}, 60},
		{domain.RecommendedPlace{Bucket: domain.BucketAttraction}, 60},
		{domain.RecommendedPlace{Bucket: domain.BucketFood}, 90},
		{domain.RecommendedPlace{Bucket: domain.BucketCafe}, 45},
		{domain.RecommendedPlace{Bucket: domain.BucketShopping}, 120},
		{domain.RecommendedPlace{Bucket: domain.BucketTransport}, 60},
		{domain.RecommendedPlace{Bucket: domain.BucketNightlife}, 60},
		{domain.RecommendedPlace{Accommodation: &domain.AccommodationInfo{Event: domain.CheckIn}}, 30},
		{domain.RecommendedPlace{Accommodation: &domain.AccommodationInfo{Event: domain.CheckOut}}, 20},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, app.VisitDuration(c.p), "%+v", c.p)
	}
}

func TestVisitDuration_IgnoresName(t *testing.T) {
	cafes := []domain.RecommendedPlace{
		{Bucket: domain.BucketCafe, Category: "음식점 > 카페", Name: "Art Gallery Cafe"},
		{Bucket: domain.BucketCafe, Category: "음식점 > 카페", Name: "Jeju experience place 3"},
		{Bucket: domain.BucketCafe, Name: "Museum Street Coffee"},
	}
	for _, p := range cafes {
		assert.Equal(t, 45, app.VisitDuration(p), p.Name)
	}
}

func TestDaySummary_IsDerivedAndStable(t *testing.T) {
	stops := app.OptimizeDay(scattered(6), app.DefaultCenter, domain.ModeTransit)
	day := domain.DayItinerary{Day: 0, Stops: stops}

	first := day.Summary()
	travel, visit := 0, 0
	for _, s := range stops {
		travel += s.Segment.DurationMinutes
		visit += s.VisitMinutes
	}
	assert.Equal(t, travel+visit, first.TotalMinutes)
	assert.Equal(t, first, day.Summary())
}
