package app

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
)

const (
	MinRating       = 3.5
	PerQueryCap     = 3
	defaultParallel = 4
	defaultTimeout  = 8 * time.Second
)

// Aggregator fans search queries out to the provider and merges the results
// into a scored, de-duplicated candidate pool.
type Aggregator struct {
	provider    domain.PlaceProvider
	misses      domain.MissLog // optional
	concurrency int
	timeout     time.Duration
}

func NewAggregator(p domain.PlaceProvider, misses domain.MissLog, concurrency int, timeout time.Duration) *Aggregator {
	if concurrency <= 0 {
		concurrency = defaultParallel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Aggregator{provider: p, misses: misses, concurrency: concurrency, timeout: timeout}
}

// Aggregate never fails: provider errors are skipped per query, and an empty
// result falls back to the region's seed list or a single placeholder.
func (a *Aggregator) Aggregate(ctx context.Context, regionName string, interests []string, desired int) []domain.RecommendedPlace {
	queries := BuildQueries(regionName)
	rated := make([][]domain.PlaceCandidate, len(queries))
	unrated := make([][]domain.PlaceCandidate, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			qctx, cancel := context.WithTimeout(gctx, a.timeout)
			defer cancel()

			cands, err := a.provider.Search(qctx, domain.SearchQuery{Text: q})
			if err != nil {
				a.skip(ctx, q, err)
				return nil
			}
			rated[i], unrated[i] = qualify(cands)
			return nil
		})
	}
	_ = g.Wait()

	merged := flatten(rated)
	if len(merged) == 0 {
		// unrated results count only when nothing else came back
		merged = flatten(unrated)
	}

	out := normalize(dedupe(merged), interests, domain.SourceProvider)
	if len(out) == 0 {
		out = fallbackPool(regionName, interests)
	}
	if desired > 0 && len(out) > desired {
		out = out[:desired]
	}
	log.Debug().Str("region", regionName).Int("queries", len(queries)).Int("pool", len(out)).Msg("aggregated candidates")
	return out
}

func (a *Aggregator) skip(ctx context.Context, query string, err error) {
	log.Warn().Err(err).Str("query", query).Msg("place search failed; skipping query")
	observability.ObserveProviderFailure("places", err)
	if a.misses == nil || errors.Is(err, context.Canceled) {
		return
	}
	if lerr := a.misses.LogMiss(ctx, query, 0, observability.LabelErr(err)); lerr != nil {
		log.Debug().Err(lerr).Msg("miss log write failed")
	}
}

// qualify splits one query's results into rated (>= MinRating, top PerQueryCap by
// rating) and unrated (no rating at all, first PerQueryCap kept as reserve).
func qualify(cands []domain.PlaceCandidate) (rated, unrated []domain.PlaceCandidate) {
	for _, c := range cands {
		switch {
		case c.Rating == nil:
			unrated = append(unrated, c)
		case *c.Rating >= MinRating:
			rated = append(rated, c)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool { return *rated[i].Rating > *rated[j].Rating })
	if len(rated) > PerQueryCap {
		rated = rated[:PerQueryCap]
	}
	if len(unrated) > PerQueryCap {
		unrated = unrated[:PerQueryCap]
	}
	return rated, unrated
}

func flatten(groups [][]domain.PlaceCandidate) []domain.PlaceCandidate {
	var out []domain.PlaceCandidate
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// dedupe drops later candidates that repeat an earlier name or a non-empty address.
func dedupe(in []domain.PlaceCandidate) []domain.PlaceCandidate {
	names := map[string]struct{}{}
	addrs := map[string]struct{}{}
	out := make([]domain.PlaceCandidate, 0, len(in))
	for _, c := range in {
		name := strings.TrimSpace(c.Name)
		if _, dup := names[name]; dup {
			continue
		}
		keys := nonEmpty(strings.TrimSpace(c.Address), strings.TrimSpace(c.RoadAddress))
		dup := false
		for _, k := range keys {
			if _, ok := addrs[k]; ok {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		names[name] = struct{}{}
		for _, k := range keys {
			addrs[k] = struct{}{}
		}
		out = append(out, c)
	}
	return out
}

func nonEmpty(ss ...string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// normalize converts candidates into scored places, dropping lodging and transport
// entries, and orders them by match score.
func normalize(cands []domain.PlaceCandidate, interests []string, source string) []domain.RecommendedPlace {
	out := make([]domain.RecommendedPlace, 0, len(cands))
	for _, c := range cands {
		p := toPlace(c, interests, source)
		if p.Bucket == domain.BucketAccommodation || p.Bucket == domain.BucketTransport {
			continue
		}
		out = append(out, p)
	}
	sortByScore(out)
	return out
}

func toPlace(c domain.PlaceCandidate, interests []string, source string) domain.RecommendedPlace {
	b := domain.Categorize(c.Category)
	addr := c.RoadAddress
	if addr == "" {
		addr = c.Address
	}
	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}
	p := domain.RecommendedPlace{
		ID:          id,
		Name:        strings.TrimSpace(c.Name),
		Category:    c.Category,
		Bucket:      b,
		Address:     addr,
		Coord:       domain.Coordinate{Lat: c.Lat, Lon: c.Lon},
		Phone:       c.Phone,
		Rating:      c.Rating,
		ReviewCount: c.ReviewCount,
		Tags:        domain.DeriveTags(c.Category, b),
		Source:      source,
	}
	p.MatchScore = domain.CompositeScore(p, interests)
	return p
}

func sortByScore(ps []domain.RecommendedPlace) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].MatchScore != ps[j].MatchScore {
			return ps[i].MatchScore > ps[j].MatchScore
		}
		if ri, rj := ps[i].RatingValue(), ps[j].RatingValue(); ri != rj {
			return ri > rj
		}
		if ps[i].Name != ps[j].Name {
			return ps[i].Name < ps[j].Name
		}
		return ps[i].ID < ps[j].ID
	})
}

// fallbackPool returns the seed list of a known region, otherwise one placeholder.
func fallbackPool(regionName string, interests []string) []domain.RecommendedPlace {
	if seeds, ok := seedPlaces(regionName); ok {
		log.Warn().Str("region", regionName).Msg("no live candidates; serving seed list")
		observability.ObserveFallback("seed")
		return normalize(seeds, interests, domain.SourceSeed)
	}
	log.Warn().Str("region", regionName).Msg("no live candidates and no seeds; serving placeholder")
	observability.ObserveFallback("placeholder")
	name := strings.TrimSpace(regionName)
	if name == "" {
		name = "Destination"
	}
	return []domain.RecommendedPlace{{
		ID:       "placeholder-" + uuid.NewString(),
		Name:     name + " city center",
		Category: "placeholder",
		Bucket:   domain.BucketAttraction,
		Coord:    DefaultCenter,
		Tags:     []string{"placeholder", string(domain.BucketAttraction)},
		Source:   domain.SourceFallback,
	}}
}

func isDegradedSource(src string) bool {
	return src == domain.SourceSeed || src == domain.SourceFallback
}
