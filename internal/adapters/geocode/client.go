package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Client resolves free-form addresses through a Nominatim-compatible search endpoint.
// The public instance allows one request per second per application.
type Client struct {
	base string
	ua   string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base, userAgent string) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = "travel-planner/1.0"
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		ua:   userAgent,
		hc:   &http.Client{Timeout: 5 * time.Second},
		rl:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c *Client) Resolve(ctx context.Context, address string) (domain.Coordinate, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Coordinate{}, domain.ErrGeocodeNotFound
	}
	if err := c.rl.Wait(ctx); err != nil {
		return domain.Coordinate{}, err
	}

	params := url.Values{}
	params.Add("q", address)
	params.Add("format", "json")
	params.Add("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.Coordinate{}, err
	}
	req.Header.Set("User-Agent", c.ua)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("geocode", "search", 0, time.Since(start))
		log.Warn().Err(err).Str("address", address).Msg("nominatim request failed")
		return domain.Coordinate{}, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	observability.ObserveExternal("geocode", "search", resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.Coordinate{}, domain.ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return domain.Coordinate{}, fmt.Errorf("%w: upstream status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return domain.Coordinate{}, fmt.Errorf("decode nominatim payload: %w", err)
	}
	for _, r := range results {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lon, errLon := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		return domain.Coordinate{Lat: lat, Lon: lon}, nil
	}
	return domain.Coordinate{}, domain.ErrGeocodeNotFound
}
