package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/carnetphoto/carnet/pkg/generate"
)

// nominatimBase is the public Nominatim endpoint.
const nominatimBase = "https://nominatim.openstreetmap.org"

const (
	// geocodeTimeout bounds a single geocoding request.
	geocodeTimeout = 10 * time.Second

	// geocodeAttempts is how many times a failing request is tried before
	// the caller gives up on the city.
	geocodeAttempts = 3

	// geocodeBackoff is the first retry delay. It doubles per attempt.
	geocodeBackoff = 500 * time.Millisecond
)

// ErrNoResult reports that the geocoder answered but knows no such place.
var ErrNoResult = errors.New("no geocoding result")

// Place is a geocoded location.
type Place struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
}

// Geocoder resolves place names through the Nominatim search API, caching
// answers on disk and observing the public service's one request per second
// policy.
type Geocoder struct {
	base    string
	http    *http.Client
	cache   *Cache
	limiter *rate.Limiter
}

// NewGeocoder builds a geocoder on top of client. cache may be nil to skip
// disk caching.
func NewGeocoder(client *http.Client, cache *Cache) *Geocoder {
	return &Geocoder{
		base:    nominatimBase,
		http:    withUserAgent(client),
		cache:   cache,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Locate resolves query to coordinates. The search is first bounded to the
// viewbox (Web Mercator); when nothing matches there it is retried
// worldwide. ErrNoResult means the place is unknown; an
// ExternalServiceError means the service could not be reached.
func (g *Geocoder) Locate(ctx context.Context, query string, viewbox BBox) (Place, error) {
	south, west := Unproject(Point{X: viewbox.MinX, Y: viewbox.MinY})
	north, east := Unproject(Point{X: viewbox.MaxX, Y: viewbox.MaxY})

	bounded := url.Values{}
	bounded.Set("q", query)
	bounded.Set("format", "json")
	bounded.Set("viewbox", fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", west, south, east, north))
	bounded.Set("bounded", "1")

	place, err := g.search(ctx, bounded)
	if !errors.Is(err, ErrNoResult) {
		return place, err
	}

	worldwide := url.Values{}
	worldwide.Set("q", query)
	worldwide.Set("format", "json")
	return g.search(ctx, worldwide)
}

// search runs one parameterized query against the service, going through
// the disk cache first.
func (g *Geocoder) search(ctx context.Context, params url.Values) (Place, error) {
	signature := params.Encode()
	if g.cache != nil {
		if data, ok := g.cache.GetGeocode(signature); ok {
			var place Place
			if err := json.Unmarshal(data, &place); err == nil {
				return place, nil
			}
		}
	}

	results, err := g.query(ctx, params)
	if err != nil {
		return Place{}, err
	}
	if len(results) == 0 {
		return Place{}, ErrNoResult
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return Place{}, &generate.ExternalServiceError{
			Service: "nominatim",
			Err:     fmt.Errorf("malformed coordinates %q, %q", results[0].Lat, results[0].Lon),
		}
	}
	place := Place{Lat: lat, Lon: lon, DisplayName: results[0].DisplayName}

	if g.cache != nil {
		if data, err := json.Marshal(place); err == nil {
			g.cache.PutGeocode(signature, data)
		}
	}
	return place, nil
}

// nominatimResult mirrors the service's JSON, which carries coordinates as
// strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// query sends the request, retrying transient failures with backoff.
func (g *Geocoder) query(ctx context.Context, params url.Values) ([]nominatimResult, error) {
	var lastErr error
	for attempt := 0; attempt < geocodeAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(geocodeBackoff << (attempt - 1)):
			}
		}
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		results, retryable, err := g.doQuery(ctx, params)
		if err == nil {
			return results, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, &generate.ExternalServiceError{Service: "nominatim", Err: lastErr}
}

func (g *Geocoder) doQuery(ctx context.Context, params url.Values) (results []nominatimResult, retryable bool, err error) {
	reqCtx, cancel := context.WithTimeout(ctx, geocodeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, g.base+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, false, err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("status %s", resp.Status)
	default:
		io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, false, fmt.Errorf("decoding response: %w", err)
	}
	return results, false, nil
}
