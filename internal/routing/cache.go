package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"adazone/internal/redis"
)

const cacheKeyPrefix = "routedist"

// cachedDistance is the value stored per origin-destination pair.
type cachedDistance struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// RouteDistance returns the network distance and duration between two
// [lon, lat] coordinates, consulting the Redis cache before calling the
// directions API. Identical coordinates short-circuit to zero.
func (c *Client) RouteDistance(ctx context.Context, origin, destination [2]float64, mode string) (distance, duration float64, err error) {
	if origin == destination {
		return 0, 0, nil
	}

	key := fmt.Sprintf("%s:%s:%g,%g:%g,%g", cacheKeyPrefix, mode,
		origin[0], origin[1], destination[0], destination[1])

	if client := redis.GetClient(); client != nil {
		if raw, err := redis.Get(key); err == nil {
			var cached cachedDistance
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached.Distance, cached.Duration, nil
			}
		}
	}

	route, err := c.Directions(ctx, origin, destination, mode)
	if err != nil {
		return 0, 0, err
	}

	if client := redis.GetClient(); client != nil {
		raw, err := json.Marshal(cachedDistance{Distance: route.Distance, Duration: route.Duration})
		if err == nil {
			if err := redis.Set(key, raw, 24*time.Hour); err != nil {
				log.Printf("Failed to cache route distance for %s: %v", key, err)
			}
		}
	}

	return route.Distance, route.Duration, nil
}
