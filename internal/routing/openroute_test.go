package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Geometry encoding (38.5,-120.2) -> (40.7,-120.95) -> (43.252,-126.453).
const testGeometry = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

func stubDirectionsServer(t *testing.T) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))

		var req directionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Coordinates, 2)

		resp := map[string]interface{}{
			"routes": []map[string]interface{}{
				{
					"summary":  map[string]float64{"distance": 1000, "duration": 600},
					"geometry": testGeometry,
					"segments": []map[string]interface{}{
						{
							"steps": []map[string]interface{}{
								{"distance": 400, "duration": 240, "way_points": []int{0, 1}},
								{"distance": 600, "duration": 360, "way_points": []int{1, 2}},
							},
						},
					},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestClient_Directions(t *testing.T) {
	t.Parallel()

	server := stubDirectionsServer(t)
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	route, err := client.Directions(context.Background(), [2]float64{-120.2, 38.5}, [2]float64{-126.453, 43.252}, ModeDriving)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, route.Distance)
	assert.Equal(t, 600.0, route.Duration)
	require.Len(t, route.Points, 3)
	assert.InDelta(t, 38.5, route.Points[0][0], 1e-5)
	require.Len(t, route.Steps, 2)
	assert.Equal(t, 0, route.Steps[0].StartPoint)
	assert.Equal(t, 2, route.Steps[1].EndPoint)
}

func TestClient_DirectionsErrors(t *testing.T) {
	t.Parallel()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"routes": []}`))
	}))
	defer empty.Close()

	client := NewClientWithBaseURL("test-key", empty.URL)
	_, err := client.Directions(context.Background(), [2]float64{0, 0}, [2]float64{1, 1}, ModeDriving)
	assert.Error(t, err, "an empty route list must be surfaced")

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer failing.Close()

	client = NewClientWithBaseURL("bad-key", failing.URL)
	_, err = client.Directions(context.Background(), [2]float64{0, 0}, [2]float64{1, 1}, ModeDriving)
	assert.Error(t, err, "a non-200 status must be surfaced")
}

func TestRouteDistance_SameCoordinate(t *testing.T) {
	t.Parallel()

	client := NewClient("unused")
	d, dur, err := client.RouteDistance(context.Background(), [2]float64{1, 2}, [2]float64{1, 2}, ModeDriving)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)
	assert.Equal(t, 0.0, dur)
}

func TestHalfwayDistance(t *testing.T) {
	t.Parallel()

	server := stubDirectionsServer(t)
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	route, err := client.Directions(context.Background(), [2]float64{-120.2, 38.5}, [2]float64{-126.453, 43.252}, ModeDriving)
	require.NoError(t, err)

	first, firstDur, err := HalfwayDistance(route, true)
	require.NoError(t, err)
	second, secondDur, err := HalfwayDistance(route, false)
	require.NoError(t, err)

	// The two halves partition the totals.
	assert.InDelta(t, route.Distance, first+second, 1e-9)
	assert.InDelta(t, route.Duration, firstDur+secondDur, 1e-9)
	assert.Greater(t, first, 0.0)
	assert.Greater(t, second, 0.0)

	_, _, err = HalfwayDistance(&Route{Points: [][2]float64{{0, 0}}}, true)
	assert.Error(t, err)
}
