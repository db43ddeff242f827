// Package routing looks up road-network distances from the
// OpenRouteService directions API, as an alternative to straight-line
// centroid distances when calibrating the interaction model.
package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"adazone/internal/util"
)

const defaultBaseURL = "https://api.openrouteservice.org/v2/directions"

// Mode names accepted by the directions API.
const (
	ModeDriving = "driving-car"
	ModeWalking = "foot-walking"
	ModeCycling = "cycling-regular"
)

// Client calls the OpenRouteService directions API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a directions client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint,
// used by tests to point at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

// Route is one routing result: totals plus the decoded geometry and the
// per-step breakdown needed for halfway-distance computation.
type Route struct {
	Distance float64      // meters
	Duration float64      // seconds
	Points   [][2]float64 // [lat, lng] pairs along the route
	Steps    []Step
}

// Step is one instruction segment of a route.
type Step struct {
	Distance   float64
	Duration   float64
	StartPoint int // index into Route.Points
	EndPoint   int
}

type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
		Geometry string `json:"geometry"`
		Segments []struct {
			Steps []struct {
				Distance  float64 `json:"distance"`
				Duration  float64 `json:"duration"`
				WayPoints []int   `json:"way_points"`
			} `json:"steps"`
		} `json:"segments"`
	} `json:"routes"`
}

// Directions requests a route between origin and destination, both given
// as [lon, lat], for the given travel mode.
func (c *Client) Directions(ctx context.Context, origin, destination [2]float64, mode string) (*Route, error) {
	body, err := json.Marshal(directionsRequest{Coordinates: [][2]float64{origin, destination}})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/" + mode
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json, application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directions request returned status %d", resp.StatusCode)
	}

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode directions response: %w", err)
	}
	if len(decoded.Routes) == 0 {
		return nil, fmt.Errorf("no routes found between %v and %v", origin, destination)
	}

	r := decoded.Routes[0]
	route := &Route{
		Distance: r.Summary.Distance,
		Duration: r.Summary.Duration,
		Points:   util.DecodePolyline(r.Geometry),
	}
	for _, segment := range r.Segments {
		for _, step := range segment.Steps {
			if len(step.WayPoints) == 0 {
				continue
			}
			route.Steps = append(route.Steps, Step{
				Distance:   step.Distance,
				Duration:   step.Duration,
				StartPoint: step.WayPoints[0],
				EndPoint:   step.WayPoints[len(step.WayPoints)-1],
			})
		}
	}
	return route, nil
}

// HalfwayDistance returns the network distance and duration of the route
// part up to (or, with firstHalf false, beyond) the point where the
// straight-line distance from the route start reaches half the
// straight-line origin-destination distance. Splitting at the spatial
// halfway point keeps the two halves comparable for zone-to-zone
// distance estimates.
func HalfwayDistance(route *Route, firstHalf bool) (distance, duration float64, err error) {
	if len(route.Points) < 2 {
		return 0, 0, fmt.Errorf("route has fewer than 2 geometry points")
	}

	start := route.Points[0]
	end := route.Points[len(route.Points)-1]
	halfway := 0.5 * util.DistanceLatLng(start, end)

	var runningDistance, runningDuration float64
	for _, step := range route.Steps {
		if step.EndPoint >= len(route.Points) || step.StartPoint >= len(route.Points) {
			continue
		}
		euclideanEnd := util.DistanceLatLng(start, route.Points[step.EndPoint])
		if euclideanEnd > halfway {
			euclideanStart := util.DistanceLatLng(start, route.Points[step.StartPoint])
			part := 0.0
			if euclideanEnd > euclideanStart {
				part = (halfway - euclideanStart) / (euclideanEnd - euclideanStart)
			}
			runningDistance += part * step.Distance
			runningDuration += part * step.Duration
			if firstHalf {
				return runningDistance, runningDuration, nil
			}
			return route.Distance - runningDistance, route.Duration - runningDuration, nil
		}
		runningDistance += step.Distance
		runningDuration += step.Duration
	}

	return 0, 0, fmt.Errorf("halfway point not found within route steps")
}
