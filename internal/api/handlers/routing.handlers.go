package routes

import (
	"log"
	"strconv"

	"adazone/internal/routing"

	"github.com/gin-gonic/gin"
)

var routingClient *routing.Client

// SetupRoutingHandlers registers the network distance endpoints. An empty
// API key disables them.
func SetupRoutingHandlers(router *gin.RouterGroup, apiKey string) {
	if apiKey == "" {
		log.Println("ORS_API_KEY not set, network distance endpoints disabled")
		return
	}
	routingClient = routing.NewClient(apiKey)

	routeGroup := router.Group("/routes")
	routeGroup.GET("/distance", GetRouteDistance)
}

// GetRouteDistance handles the network distance endpoint. Coordinates are
// given as from-lon/from-lat/to-lon/to-lat query parameters.
func GetRouteDistance(c *gin.Context) {
	origin, ok := coordinateParams(c, "from-lon", "from-lat")
	if !ok {
		return
	}
	destination, ok := coordinateParams(c, "to-lon", "to-lat")
	if !ok {
		return
	}
	mode := c.DefaultQuery("mode", routing.ModeDriving)

	distance, duration, err := routingClient.RouteDistance(c.Request.Context(), origin, destination, mode)
	if err != nil {
		log.Printf("Route distance lookup failed: %v", err)
		c.JSON(502, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(200, gin.H{
		"status":   "success",
		"distance": distance,
		"duration": duration,
		"mode":     mode,
	})
}

func coordinateParams(c *gin.Context, lonKey, latKey string) ([2]float64, bool) {
	lon, err := strconv.ParseFloat(c.Query(lonKey), 64)
	if err != nil {
		c.JSON(400, gin.H{"status": "error", "message": lonKey + " must be a number"})
		return [2]float64{}, false
	}
	lat, err := strconv.ParseFloat(c.Query(latKey), 64)
	if err != nil {
		c.JSON(400, gin.H{"status": "error", "message": latKey + " must be a number"})
		return [2]float64{}, false
	}
	return [2]float64{lon, lat}, true
}
