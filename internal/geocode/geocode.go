package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Place is one ranked candidate for a free-text location query.
type Place struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

const (
	cachePrefix = "geo:search"

	// cacheTTL bounds the memoization of search results; time expiry is the
	// only invalidation.
	cacheTTL = 30 * time.Second

	maxResults = 5
)

// Client queries a Nominatim-compatible geocoder, memoizing results in Redis
// keyed by the query string. Cancelling the request context abandons an
// in-flight lookup, which is how a superseded incremental search is
// discarded (last request wins).
type Client struct {
	http    *http.Client
	baseURL string
	cache   *redis.Client
}

func NewClient(baseURL string, cache *redis.Client) *Client {
	return &Client{
		http:    &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
		cache:   cache,
	}
}

// nominatimResult mirrors the fields we consume from the geocoder response.
type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search returns ranked place candidates for the query.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	if query == "" {
		return nil, nil
	}

	// Cache misses and cache failures both fall through to the geocoder;
	// a down cache never fails a search.
	cacheKey := fmt.Sprintf("%s:%s", cachePrefix, query)
	if c.cache != nil {
		if raw, err := c.cache.Get(ctx, cacheKey).Result(); err == nil {
			var places []Place
			if err := json.Unmarshal([]byte(raw), &places); err == nil {
				return places, nil
			}
		}
	}

	u := fmt.Sprintf("%s/search?q=%s&format=json&limit=%d",
		c.baseURL, url.QueryEscape(query), maxResults)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lng, lngErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		places = append(places, Place{Label: r.DisplayName, Lat: lat, Lng: lng})
	}

	if c.cache != nil {
		if raw, err := json.Marshal(places); err == nil {
			c.cache.Set(ctx, cacheKey, raw, cacheTTL)
		}
	}
	return places, nil
}
