package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OSRMClient implements Provider against an OSRM-compatible routing service.
// It uses the route endpoint for single destinations (higher accuracy path)
// and the table endpoint for batches.
type OSRMClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOSRMClient creates a new OSRMClient.
func NewOSRMClient(baseURL string, timeout time.Duration) *OSRMClient {
	return &OSRMClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

type tableResponse struct {
	Code      string       `json:"code"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// Distance returns the driving distance and duration to a single destination.
func (c *OSRMClient) Distance(ctx context.Context, origin, dest Point) (Result, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%s;%s?overview=false",
		c.baseURL, coord(origin), coord(dest))

	var resp routeResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return Result{}, err
	}

	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		return Result{}, fmt.Errorf("%w: route response code %q", ErrUnavailable, resp.Code)
	}

	return Result{
		DistanceMeters:  resp.Routes[0].Distance,
		DurationSeconds: resp.Routes[0].Duration,
	}, nil
}

// Distances returns driving distances and durations to all destinations.
// A destination the service cannot route to gets a per-destination
// ErrUnavailable; it is never reported as distance zero.
func (c *OSRMClient) Distances(ctx context.Context, origin Point, dests []Point) ([]Result, error) {
	if len(dests) == 0 {
		return nil, nil
	}

	coords := make([]string, 0, len(dests)+1)
	coords = append(coords, coord(origin))
	for _, d := range dests {
		coords = append(coords, coord(d))
	}

	url := fmt.Sprintf("%s/table/v1/driving/%s?sources=0&annotations=distance,duration",
		c.baseURL, strings.Join(coords, ";"))

	var resp tableResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}

	if resp.Code != "Ok" || len(resp.Distances) == 0 || len(resp.Durations) == 0 {
		return nil, fmt.Errorf("%w: table response code %q", ErrUnavailable, resp.Code)
	}

	distances := resp.Distances[0]
	durations := resp.Durations[0]
	if len(distances) != len(dests)+1 || len(durations) != len(dests)+1 {
		return nil, fmt.Errorf("%w: table response shape mismatch", ErrUnavailable)
	}

	results := make([]Result, len(dests))
	for i := range dests {
		// Cell 0 is origin-to-origin; destination i is at cell i+1.
		dist, dur := distances[i+1], durations[i+1]
		if dist == nil || dur == nil {
			results[i] = Result{Err: fmt.Errorf("%w: destination not routable", ErrUnavailable)}
			continue
		}
		results[i] = Result{DistanceMeters: *dist, DurationSeconds: *dur}
	}

	return results, nil
}

func (c *OSRMClient) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// coord formats a point as OSRM expects: lng,lat.
func coord(p Point) string {
	return fmt.Sprintf("%f,%f", p.Lng, p.Lat)
}

// Ensure OSRMClient implements Provider.
var _ Provider = (*OSRMClient)(nil)
