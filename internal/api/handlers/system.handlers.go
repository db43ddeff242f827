package routes

import (
	"log"
	"sort"
	"strconv"

	"adazone/internal/model"
	"adazone/internal/service/zonesys"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// SetupSystemHandlers registers the zone system endpoints
func SetupSystemHandlers(router *gin.RouterGroup) {
	systemGroup := router.Group("/systems")

	systemGroup.POST("", BuildSystem)
	systemGroup.GET("", ListSystems)
	systemGroup.GET("/:id", GetSystem)
	systemGroup.DELETE("/:id", DeleteSystem)
	systemGroup.GET("/:id/neighbourhoods", GetNeighbourhoods)
	systemGroup.GET("/:id/neighbourhoods/transposed", GetTransposedNeighbourhoods)
	systemGroup.GET("/:id/neighbourhoods/:center/partition", GetNeighbourhoodPartition)
	systemGroup.GET("/:id/clusters", GetClusters)
	systemGroup.GET("/:id/clusters/geojson", GetClustersGeoJSON)
}

// BuildSystemRequest is the payload for building a new zone system
type BuildSystemRequest struct {
	Name    string       `json:"name"`
	Beta    float64      `json:"beta" binding:"required"`
	NbhSize int          `json:"nbh_size" binding:"required"`
	Zones   []model.Zone `json:"zones" binding:"required"`
}

func systemSummary(stored *zonesys.StoredSystem) gin.H {
	return gin.H{
		"id":         stored.ID,
		"name":       stored.Name,
		"beta":       stored.System.Beta(),
		"nbh_size":   stored.System.NeighbourhoodSize(),
		"num_leafs":  stored.System.NumAtomicZones(),
		"num_zones":  stored.System.NumZones(),
		"created_at": stored.CreatedAt,
	}
}

// BuildSystem handles the build endpoint
func BuildSystem(c *gin.Context) {
	var req BuildSystemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	stored, err := zonesys.GetZoneSystemService().Build(req.Name, req.Zones, req.Beta, req.NbhSize)
	if err != nil {
		log.Printf("Zone system build failed: %v", err)
		c.JSON(422, gin.H{"status": "error", "message": err.Error()})
		return
	}

	c.JSON(201, gin.H{"status": "success", "system": systemSummary(stored)})
}

// ListSystems handles the system list endpoint
func ListSystems(c *gin.Context) {
	systems := zonesys.GetZoneSystemService().List()

	summaries := make([]gin.H, 0, len(systems))
	for _, stored := range systems {
		summaries = append(summaries, systemSummary(stored))
	}
	c.JSON(200, gin.H{"status": "success", "systems": summaries})
}

func lookupSystem(c *gin.Context) (*zonesys.StoredSystem, bool) {
	stored, ok := zonesys.GetZoneSystemService().Get(c.Param("id"))
	if !ok {
		c.JSON(404, gin.H{"status": "error", "message": "zone system not found"})
		return nil, false
	}
	return stored, true
}

// GetSystem handles the system summary endpoint
func GetSystem(c *gin.Context) {
	stored, ok := lookupSystem(c)
	if !ok {
		return
	}
	c.JSON(200, gin.H{"status": "success", "system": systemSummary(stored)})
}

// DeleteSystem handles the system removal endpoint
func DeleteSystem(c *gin.Context) {
	if !zonesys.GetZoneSystemService().Delete(c.Param("id")) {
		c.JSON(404, gin.H{"status": "error", "message": "zone system not found"})
		return
	}
	c.JSON(200, gin.H{"status": "success"})
}

// GetNeighbourhoods handles the per-leaf neighbourhood list endpoint
func GetNeighbourhoods(c *gin.Context) {
	stored, ok := lookupSystem(c)
	if !ok {
		return
	}

	neighbourhoods := make([][]int, 0, stored.System.NumAtomicZones())
	for _, nbh := range stored.System.Neighbourhoods() {
		members := make([]int, 0, len(nbh))
		for m := range nbh {
			members = append(members, m)
		}
		sort.Ints(members)
		neighbourhoods = append(neighbourhoods, members)
	}
	c.JSON(200, gin.H{"status": "success", "neighbourhoods": neighbourhoods})
}

// GetTransposedNeighbourhoods handles the inverted neighbourhood endpoint
func GetTransposedNeighbourhoods(c *gin.Context) {
	stored, ok := lookupSystem(c)
	if !ok {
		return
	}
	c.JSON(200, gin.H{"status": "success", "transposed": stored.System.TransposedNeighbourhoods()})
}

// GetNeighbourhoodPartition maps every atomic zone onto the member of one
// leaf's neighbourhood it falls under
func GetNeighbourhoodPartition(c *gin.Context) {
	stored, ok := lookupSystem(c)
	if !ok {
		return
	}

	center, err := strconv.Atoi(c.Param("center"))
	if err != nil {
		c.JSON(400, gin.H{"status": "error", "message": "center must be an integer"})
		return
	}
	renumber := c.Query("renumber") == "true"

	mapped, err := stored.System.MapLeafZonesToNeighbourhood(center, renumber)
	if err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(200, gin.H{"status": "success", "partition": mapped})
}

// GetClusters handles the n-cluster partition endpoint
func GetClusters(c *gin.Context) {
	stored, ok := lookupSystem(c)
	if !ok {
		return
	}

	n, err := strconv.Atoi(c.DefaultQuery("n", "1"))
	if err != nil {
		c.JSON(400, gin.H{"status": "error", "message": "n must be an integer"})
		return
	}
	renumber := c.Query("renumber") == "true"

	mapped, err := stored.System.MapLeafZonesToNClusters(n, renumber)
	if err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}
	c.JSON(200, gin.H{"status": "success", "clusters": mapped})
}

// GetClustersGeoJSON exports the n-cluster partition as a GeoJSON
// FeatureCollection of atomic zone centroids tagged with their cluster
func GetClustersGeoJSON(c *gin.Context) {
	stored, ok := lookupSystem(c)
	if !ok {
		return
	}

	n, err := strconv.Atoi(c.DefaultQuery("n", "1"))
	if err != nil {
		c.JSON(400, gin.H{"status": "error", "message": "n must be an integer"})
		return
	}

	mapped, err := stored.System.MapLeafZonesToNClusters(n, true)
	if err != nil {
		c.JSON(400, gin.H{"status": "error", "message": err.Error()})
		return
	}

	fc := geojson.NewFeatureCollection()
	for leaf, centroid := range stored.System.LeafCentroids() {
		feature := geojson.NewFeature(orb.Point{centroid.X, centroid.Y})
		feature.Properties["zone"] = leaf
		feature.Properties["cluster"] = mapped[leaf]
		fc.Append(feature)
	}
	c.JSON(200, fc)
}
