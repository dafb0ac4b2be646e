package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"travel_planner/internal/domain"
)

// ---- fakes ----

// stubProvider answers every query through fn and records the queries it saw.
type stubProvider struct {
	mu      sync.Mutex
	fn      func(q domain.SearchQuery) ([]domain.PlaceCandidate, error)
	queries []domain.SearchQuery
}

func (s *stubProvider) Search(ctx context.Context, q domain.SearchQuery) ([]domain.PlaceCandidate, error) {
	s.mu.Lock()
	s.queries = append(s.queries, q)
	s.mu.Unlock()
	return s.fn(q)
}

func (s *stubProvider) calls(category domain.Bucket) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, q := range s.queries {
		if q.Category == category {
			n++
		}
	}
	return n
}

var errProvider = fmt.Errorf("stub: %w", domain.ErrProviderUnavailable)

func failingProvider() *stubProvider {
	return &stubProvider{fn: func(domain.SearchQuery) ([]domain.PlaceCandidate, error) { return nil, errProvider }}
}

var syntheticLabels = []string{
	"여행 > 관광,명소 > 해수욕장",
	"음식점 > 한식 > 해물,생선",
	"음식점 > 카페",
	"문화,예술 > 문화시설 > 박물관",
	"가정,생활 > 시장 > 전통시장",
	"음식점 > 술집 > 호프,요리주점",
	"여행 > 공원 > 도립공원",
}

// syntheticProvider returns n candidates per query with ratings spread over
// 3.0..4.8; names and ids are unique per query text. Lodging queries get lodging.
func syntheticProvider(n int) *stubProvider {
	return &stubProvider{fn: func(q domain.SearchQuery) ([]domain.PlaceCandidate, error) {
		if q.Category == domain.BucketAccommodation {
			return []domain.PlaceCandidate{lodgingAt("Harbor Hotel", q.Near, 4.4)}, nil
		}
		out := make([]domain.PlaceCandidate, 0, n)
		for i := 0; i < n; i++ {
			r := 3.0 + 1.8*float64(i)/float64(n-1)
			out = append(out, domain.PlaceCandidate{
				ID:          fmt.Sprintf("%s#%d", q.Text, i),
				Name:        fmt.Sprintf("%s place %d", q.Text, i),
				Category:    syntheticLabels[i%len(syntheticLabels)],
				Address:     fmt.Sprintf("%s street %d", q.Text, i),
				Lat:         33.40 + float64(i)*0.01,
				Lon:         126.40 + float64(len(q.Text)%7)*0.02,
				Rating:      &r,
				ReviewCount: 10 * i,
			})
		}
		return out, nil
	}}
}

func lodgingAt(name string, near *domain.Coordinate, rating float64) domain.PlaceCandidate {
	c := domain.Coordinate{Lat: 33.5, Lon: 126.5}
	if near != nil {
		c = *near
	}
	return domain.PlaceCandidate{
		ID: "lodging-" + name, Name: name, Category: "여행 > 숙박 > 호텔",
		Lat: c.Lat + 0.001, Lon: c.Lon, Rating: &rating,
	}
}

type mockGeocoder struct{ mock.Mock }

func (m *mockGeocoder) Resolve(ctx context.Context, address string) (domain.Coordinate, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(domain.Coordinate), args.Error(1)
}

type missRecorder struct {
	mu      sync.Mutex
	queries []string
	status  []int
}

func (m *missRecorder) LogMiss(ctx context.Context, query string, status int, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	m.status = append(m.status, status)
	return nil
}

func (m *missRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

type fakeStore struct {
	data map[string]domain.Coordinate
	puts int
}

func (f *fakeStore) GetGeocode(ctx context.Context, address string) (domain.Coordinate, bool, error) {
	c, ok := f.data[address]
	return c, ok, nil
}

func (f *fakeStore) PutGeocode(ctx context.Context, address string, c domain.Coordinate) error {
	if f.data == nil {
		f.data = map[string]domain.Coordinate{}
	}
	f.data[address] = c
	f.puts++
	return nil
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }

func place(id string, b domain.Bucket, rating float64, score int) domain.RecommendedPlace {
	return domain.RecommendedPlace{
		ID: id, Name: "name " + id, Bucket: b, Rating: &rating, MatchScore: score,
		Source: domain.SourceProvider,
	}
}
