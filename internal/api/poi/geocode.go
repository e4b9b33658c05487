package poi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrPlaceNotFound means the geocoder returned no match for the place name.
var ErrPlaceNotFound = errors.New("place not found")

// errGeocoderUnavailable marks transient failures (transport errors,
// non-200 statuses) that are worth retrying. Definitive answers such as an
// empty result set or a malformed payload are not retried.
var errGeocoderUnavailable = errors.New("geocoder unavailable")

// Geocoder resolves a free-form place name to coordinates via Nominatim,
// with the same bounded retry and backoff policy as the Overpass client.
type Geocoder struct {
	baseURL     string
	maxAttempts int
	baseBackoff time.Duration
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewGeocoder(baseURL string, maxAttempts int, baseBackoff time.Duration, logger *slog.Logger) *Geocoder {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if baseBackoff <= 0 {
		baseBackoff = 500 * time.Millisecond
	}
	return &Geocoder{
		baseURL:     baseURL,
		maxAttempts: maxAttempts,
		baseBackoff: baseBackoff,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		logger:      logger,
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode returns the best-match coordinate for place, retrying transient
// upstream failures with exponential backoff and jitter.
func (g *Geocoder) Geocode(ctx context.Context, place string) (float64, float64, error) {
	var lastErr error
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := g.baseBackoff << (attempt - 1)
			jitter := time.Duration(rand.Int63n(int64(backoff)/2 + 1))
			select {
			case <-ctx.Done():
				return 0, 0, ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		lat, lon, err := g.lookup(ctx, place)
		if err == nil || !errors.Is(err, errGeocoderUnavailable) {
			return lat, lon, err
		}
		lastErr = err
		g.logger.WarnContext(ctx, "Geocoding request failed",
			slog.String("place", place),
			slog.Int("attempt", attempt+1),
			slog.Any("error", err),
		)
	}
	return 0, 0, lastErr
}

func (g *Geocoder) lookup(ctx context.Context, place string) (float64, float64, error) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}
	// Nominatim's usage policy requires an identifying agent.
	req.Header.Set("User-Agent", "tripweaver/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", errGeocoderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("%w: status %d", errGeocoderUnavailable, resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrPlaceNotFound, place)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoder returned malformed latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("geocoder returned malformed longitude: %w", err)
	}
	return lat, lon, nil
}
