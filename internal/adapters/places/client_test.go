package places_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"travel_planner/internal/adapters/places"
	"travel_planner/internal/domain"
)

func TestClient_Search_RetriesThenSuccess(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "KakaoAK test-key" {
			t.Errorf("auth header: %q", got)
		}
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			w.WriteHeader(503)
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"documents": []map[string]any{
					{
						"id": "8123", "place_name": "Dongmun Market",
						"category_name": "가정,생활 > 시장 > 전통시장",
						"address_name":  "제주 제주시 이도1동 1436-7",
						"x":             "126.528", "y": "33.5125", "rating": "4,3",
					},
					{"place_name": "no coordinates"},
				},
			})
		}
	}))
	defer ts.Close()

	cl, err := places.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	got, err := cl.Search(ctx, domain.SearchQuery{Text: "Jeju market"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 mapped place, got %+v", got)
	}
	p := got[0]
	if p.ID != "8123" || p.Lat != 33.5125 || p.Lon != 126.528 || p.Rating == nil || *p.Rating != 4.3 {
		t.Fatalf("unexpected place: %+v", p)
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
}

func TestClient_Search_NearbyParams(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("category_group_code") != "AD5" || q.Get("radius") != "5000" || q.Get("x") == "" || q.Get("sort") != "distance" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"documents":[]}`))
	}))
	defer ts.Close()

	cl, _ := places.New(ts.URL, "k", 100)
	got, err := cl.Search(context.Background(), domain.SearchQuery{
		Text:     "Jeju hotel",
		Category: domain.BucketAccommodation,
		Near:     &domain.Coordinate{Lat: 33.5, Lon: 126.5},
		RadiusM:  5000,
	})
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
}

func TestClient_Search_Unauthorized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
	}))
	defer ts.Close()

	cl, _ := places.New(ts.URL, "bad", 100)
	_, err := cl.Search(context.Background(), domain.SearchQuery{Text: "x"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := places.New("http://x", "", 1); err == nil {
		t.Fatalf("expected error without key")
	}
}
