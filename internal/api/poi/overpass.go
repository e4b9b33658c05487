package poi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tripweaver/tripweaver/internal/types"
)

// ErrAllEndpointsFailed is returned once every configured Overpass endpoint
// has been exhausted across all retry attempts.
var ErrAllEndpointsFailed = errors.New("all Overpass endpoints failed")

// tagRule maps an OSM tag to one of our categories. Rules are ordered and
// the first match wins. An empty value matches any value of the key.
type tagRule struct {
	key      string
	value    string
	category string
}

var tagRules = []tagRule{
	{"amenity", "restaurant", types.CategoryFood},
	{"amenity", "bar", types.CategoryNightlife},
	{"amenity", "nightclub", types.CategoryNightlife},
	{"amenity", "cafe", types.CategoryCoffee},
	{"tourism", "museum", types.CategoryMuseums},
	{"leisure", "park", types.CategoryNature},
	{"tourism", "attraction", types.CategoryNature},
	{"tourism", "viewpoint", types.CategoryViewpoints},
	{"shop", "", types.CategoryShopping},
	{"amenity", "events_venue", types.CategoryEvents},
}

// categoryFor classifies raw OSM tags into our category set.
func categoryFor(tags map[string]string) string {
	for _, rule := range tagRules {
		v, ok := tags[rule.key]
		if !ok {
			continue
		}
		if rule.value == "" || v == rule.value {
			return rule.category
		}
	}
	return types.CategoryOther
}

// tagGroups partitions the rules by OSM key so each key can be fetched as
// one Overpass query, concurrently with the others.
func tagGroups() map[string][]tagRule {
	groups := make(map[string][]tagRule)
	for _, rule := range tagRules {
		groups[rule.key] = append(groups[rule.key], rule)
	}
	return groups
}

// OverpassClient fetches POIs from the Overpass API with bounded retries,
// exponential backoff with jitter, and an ordered endpoint fallback list.
type OverpassClient struct {
	endpoints   []string
	maxAttempts int
	baseBackoff time.Duration
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewOverpassClient(endpoints []string, maxAttempts int, baseBackoff, timeout time.Duration, logger *slog.Logger) *OverpassClient {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if baseBackoff <= 0 {
		baseBackoff = 500 * time.Millisecond
	}
	return &OverpassClient{
		endpoints:   endpoints,
		maxAttempts: maxAttempts,
		baseBackoff: baseBackoff,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// overpassElement coordinates are pointers so a node with no lat/lon in the
// payload is distinguishable from one genuinely located at zero.
type overpassElement struct {
	Type   string   `json:"type"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
	Tags map[string]string `json:"tags"`
}

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

// FetchPOIs queries all tag groups around the given coordinate, merges and
// deduplicates the results, and caps them at limit. Partial upstream
// failures surface as an error only when every endpoint failed for a group.
func (c *OverpassClient) FetchPOIs(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]types.POI, error) {
	radiusM := int(radiusKm * 1000)

	groups := tagGroups()
	results := make([][]overpassElement, 0, len(groups))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for key, rules := range groups {
		g.Go(func() error {
			query := buildQuery(lat, lon, radiusM, rules)
			elements, err := c.execute(gctx, query)
			if err != nil {
				return fmt.Errorf("tag group %s: %w", key, err)
			}
			mu.Lock()
			results = append(results, elements)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]overpassElement, 0)
	for _, elements := range results {
		merged = append(merged, elements...)
	}
	pois := elementsToPOIs(merged)

	if limit > 0 && len(pois) > limit {
		pois = pois[:limit]
	}
	return pois, nil
}

// execute posts one query, walking the endpoint list in order and backing
// off between rounds.
func (c *OverpassClient) execute(ctx context.Context, query string) ([]overpassElement, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := c.baseBackoff << (attempt - 1)
			jitter := time.Duration(rand.Int63n(int64(backoff)/2 + 1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		for _, endpoint := range c.endpoints {
			elements, err := c.post(ctx, endpoint, query)
			if err == nil {
				return elements, nil
			}
			lastErr = err
			c.logger.WarnContext(ctx, "Overpass request failed",
				slog.String("endpoint", endpoint),
				slog.Int("attempt", attempt+1),
				slog.Any("error", err),
			)
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrAllEndpointsFailed, lastErr)
}

func (c *OverpassClient) post(ctx context.Context, endpoint, query string) ([]overpassElement, error) {
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Overpass response: %w", err)
	}
	return parsed.Elements, nil
}

func buildQuery(lat, lon float64, radiusM int, rules []tagRule) string {
	var parts strings.Builder
	for _, rule := range rules {
		selector := fmt.Sprintf("[%q=%q]", rule.key, rule.value)
		if rule.value == "" {
			// Key-presence selector for wildcard rules.
			selector = fmt.Sprintf("[%q]", rule.key)
		}
		for _, kind := range []string{"node", "way", "relation"} {
			fmt.Fprintf(&parts, "%s(around:%d,%f,%f)%s;", kind, radiusM, lat, lon, selector)
		}
	}
	return fmt.Sprintf("[out:json][timeout:25];(%s);out center tags;", parts.String())
}

// elementsToPOIs converts raw elements to POIs: drops anything without a
// name or resolvable coordinates, applies the defaults for cost, duration
// and rating, and deduplicates by normalized name + rounded coordinates.
// Output order is deterministic (name, then coordinates).
func elementsToPOIs(elements []overpassElement) []types.POI {
	seen := make(map[string]struct{}, len(elements))
	pois := make([]types.POI, 0, len(elements))

	for _, el := range elements {
		name := strings.TrimSpace(el.Tags["name"])
		if name == "" {
			continue
		}

		var lat, lon float64
		if el.Type == "node" {
			if el.Lat == nil || el.Lon == nil {
				continue
			}
			lat, lon = *el.Lat, *el.Lon
		} else {
			if el.Center == nil {
				continue
			}
			lat, lon = el.Center.Lat, el.Center.Lon
		}

		key := fmt.Sprintf("%s|%.4f|%.4f", strings.ToLower(name), lat, lon)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		pois = append(pois, types.POI{
			Name:              name,
			Category:          categoryFor(el.Tags),
			Lat:               lat,
			Lon:               lon,
			AvgCost:           types.DefaultAvgCost,
			VisitDurationMins: types.DefaultVisitDurationMins,
			Rating:            types.DefaultRating,
		})
	}

	sort.Slice(pois, func(i, j int) bool {
		if pois[i].Name != pois[j].Name {
			return pois[i].Name < pois[j].Name
		}
		if pois[i].Lat != pois[j].Lat {
			return pois[i].Lat < pois[j].Lat
		}
		return pois[i].Lon < pois[j].Lon
	})
	return pois
}
