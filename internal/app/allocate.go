package app

import (
	"maps"
	"sort"

	"travel_planner/internal/domain"
)

const MaxStopsPerDay = 8

type slot struct {
	name   string
	bucket domain.Bucket
	count  int
}

// dayTemplate is the shape of a day before backfill.
var dayTemplate = []slot{
	{"morning", domain.BucketAttraction, 2},
	{"lunch", domain.BucketFood, 1},
	{"afternoon culture", domain.BucketCulture, 1},
	{"afternoon shopping", domain.BucketShopping, 1},
	{"coffee", domain.BucketCafe, 1},
	{"dinner", domain.BucketFood, 1},
	{"evening", domain.BucketNightlife, 1},
}

// GroupByBucket splits a candidate pool by bucket, preserving pool order.
func GroupByBucket(pool []domain.RecommendedPlace) map[domain.Bucket][]domain.RecommendedPlace {
	out := make(map[domain.Bucket][]domain.RecommendedPlace)
	for _, p := range pool {
		out[p.Bucket] = append(out[p.Bucket], p)
	}
	return out
}

// AllocateDay picks up to MaxStopsPerDay places no earlier day used. Pinned places
// come first, then the slot template, then any remaining places by match score.
// The returned set is a copy of used extended with this day's picks.
func AllocateDay(pools map[domain.Bucket][]domain.RecommendedPlace, used map[string]struct{}, pinned []domain.RecommendedPlace) ([]domain.RecommendedPlace, map[string]struct{}) {
	next := maps.Clone(used)
	if next == nil {
		next = make(map[string]struct{})
	}
	day := make([]domain.RecommendedPlace, 0, MaxStopsPerDay)
	take := func(p domain.RecommendedPlace) bool {
		if len(day) >= MaxStopsPerDay {
			return false
		}
		if _, dup := next[p.ID]; dup {
			return false
		}
		next[p.ID] = struct{}{}
		day = append(day, p)
		return true
	}

	for _, p := range pinned {
		take(p)
	}

	for _, s := range dayTemplate {
		filled := 0
		for _, p := range bySlotRank(pools[s.bucket]) {
			if filled == s.count || len(day) >= MaxStopsPerDay {
				break
			}
			if take(p) {
				filled++
			}
		}
	}

	if len(day) < MaxStopsPerDay {
		var rest []domain.RecommendedPlace
		for _, ps := range pools {
			rest = append(rest, ps...)
		}
		sortByScore(rest)
		for _, p := range rest {
			if len(day) >= MaxStopsPerDay {
				break
			}
			take(p)
		}
	}
	return day, next
}

// bySlotRank orders a bucket by rating*20 + match score, best first.
func bySlotRank(ps []domain.RecommendedPlace) []domain.RecommendedPlace {
	out := make([]domain.RecommendedPlace, len(ps))
	copy(out, ps)
	rank := func(p domain.RecommendedPlace) float64 { return p.RatingValue()*20 + float64(p.MatchScore) }
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri > rj
		}
		return out[i].Name < out[j].Name
	})
	return out
}
