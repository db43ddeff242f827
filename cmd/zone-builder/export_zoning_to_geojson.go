package main

import (
	"encoding/json"
	"log"
	"os"

	"adazone/internal/zoning"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// exportClustersToGeoJSON exports the n-cluster partition to a GeoJSON
// file for visualization: one point feature per atomic zone, tagged with
// its cluster id
func exportClustersToGeoJSON(system *zoning.ZoneSystem, n int, outputFile string) {
	log.Printf("Exporting %d-cluster partition to GeoJSON file: %s", n, outputFile)

	mapped, err := system.MapLeafZonesToNClusters(n, true)
	if err != nil {
		log.Fatalf("Failed to compute %d-cluster partition: %v", n, err)
	}

	fc := partitionFeatureCollection(system.LeafCentroids(), mapped)
	writeFeatureCollection(fc, outputFile)
}

// exportNeighbourhoodToGeoJSON exports the partition induced by one
// zone's neighbourhood: every atomic zone tagged with the neighbourhood
// member it falls under
func exportNeighbourhoodToGeoJSON(system *zoning.ZoneSystem, center int, outputFile string) {
	log.Printf("Exporting neighbourhood partition of zone %d to GeoJSON file: %s", center, outputFile)

	mapped, err := system.MapLeafZonesToNeighbourhood(center, true)
	if err != nil {
		log.Fatalf("Failed to compute neighbourhood partition of zone %d: %v", center, err)
	}

	fc := partitionFeatureCollection(system.LeafCentroids(), mapped)

	// Mark the center zone for easy spotting on a map
	centerFeature := geojson.NewFeature(orb.Point{system.LeafCentroids()[center].X, system.LeafCentroids()[center].Y})
	centerFeature.Properties["type"] = "marker"
	centerFeature.Properties["name"] = "Center"
	fc.Append(centerFeature)

	writeFeatureCollection(fc, outputFile)
}

func partitionFeatureCollection(centroids []zoning.Point, mapped []int) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for leaf, centroid := range centroids {
		feature := geojson.NewFeature(orb.Point{centroid.X, centroid.Y})
		feature.Properties["zone"] = leaf
		feature.Properties["group"] = mapped[leaf]
		fc.Append(feature)
	}
	return fc
}

func writeFeatureCollection(fc *geojson.FeatureCollection, outputFile string) {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal GeoJSON: %v", err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		log.Fatalf("Failed to write GeoJSON file %s: %v", outputFile, err)
	}

	log.Printf("Wrote %d features to %s", len(fc.Features), outputFile)
}
