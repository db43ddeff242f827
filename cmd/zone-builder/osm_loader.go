package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"runtime"
	"strconv"

	"adazone/internal/model"
	"adazone/internal/util"

	"github.com/dhconnelly/rtreego"
	"github.com/qedus/osmpbf"
)

const earthRadiusMeters = 6371000.0

// Fallback population per place type when OSM has no population tag
var defaultPopulation = map[string]float64{
	"city":    100000,
	"town":    10000,
	"village": 1000,
	"hamlet":  200,
}

// place is one settlement candidate extracted from OSM
type place struct {
	Name       string
	Lat        float64
	Lon        float64
	Population float64
}

// placeSpatial wraps a place for R-tree indexing
type placeSpatial struct {
	place *place
}

// Bounds implements the rtreego.Spatial interface
func (p *placeSpatial) Bounds() rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{p.place.Lon, p.place.Lat},
		[]float64{1e-9, 1e-9},
	)
	return rect
}

// loadZonesFromOSM extracts settlements from an OSM PBF file and turns
// them into atomic zones: population becomes the origin, destination and
// clustering weight, and centroids are projected onto a local plane in
// meters. Places closer together than mergeRadius collapse into one zone.
func loadZonesFromOSM(path string, minPopulation int, mergeRadius float64) ([]model.Zone, error) {
	log.Printf("Processing OSM file: %s", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open OSM file: %w", err)
	}
	defer file.Close()

	decoder := osmpbf.NewDecoder(file)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)

	// Use all available CPU cores
	if err := decoder.Start(runtime.GOMAXPROCS(-1)); err != nil {
		return nil, fmt.Errorf("failed to start OSM decoder: %w", err)
	}

	places, err := collectPlaces(decoder, minPopulation)
	if err != nil {
		return nil, err
	}
	log.Printf("Found %d settlements above population %d", len(places), minPopulation)

	merged := mergeNearbyPlaces(places, mergeRadius)
	log.Printf("Merged into %d zones with radius %.0fm", len(merged), mergeRadius)

	return projectPlaces(merged), nil
}

// collectPlaces scans all nodes for settlements with a known place type
func collectPlaces(decoder *osmpbf.Decoder, minPopulation int) ([]*place, error) {
	var places []*place
	for {
		v, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode OSM data: %w", err)
		}

		node, ok := v.(*osmpbf.Node)
		if !ok {
			continue
		}

		placeType, ok := node.Tags["place"]
		if !ok {
			continue
		}
		population, ok := defaultPopulation[placeType]
		if !ok {
			continue
		}
		if tagged, err := strconv.ParseFloat(node.Tags["population"], 64); err == nil && tagged > 0 {
			population = tagged
		}
		if population < float64(minPopulation) {
			continue
		}

		places = append(places, &place{
			Name:       node.Tags["name"],
			Lat:        node.Lat,
			Lon:        node.Lon,
			Population: population,
		})
	}
	return places, nil
}

// mergeNearbyPlaces collapses places within mergeRadius of each other,
// using an R-tree to find candidates
func mergeNearbyPlaces(places []*place, mergeRadius float64) []*place {
	index := rtreego.NewTree(2, 25, 50)
	// Degrees of latitude covered by the merge radius; longitude degrees
	// are wider near the equator, so this search window is conservative.
	radiusDeg := mergeRadius / earthRadiusMeters * 180 / math.Pi

	var merged []*place
	for _, p := range places {
		searchRect, _ := rtreego.NewRect(
			rtreego.Point{p.Lon - radiusDeg, p.Lat - radiusDeg},
			[]float64{2 * radiusDeg, 2 * radiusDeg},
		)

		var target *place
		for _, candidate := range index.SearchIntersect(searchRect) {
			existing := candidate.(*placeSpatial).place
			if util.HaversineDistance(p.Lat, p.Lon, existing.Lat, existing.Lon) <= mergeRadius {
				target = existing
				break
			}
		}

		if target == nil {
			copied := *p
			merged = append(merged, &copied)
			index.Insert(&placeSpatial{place: merged[len(merged)-1]})
			continue
		}

		// Fold the smaller place into the larger one, population-weighted
		total := target.Population + p.Population
		target.Lat = (target.Lat*target.Population + p.Lat*p.Population) / total
		target.Lon = (target.Lon*target.Population + p.Lon*p.Population) / total
		target.Population = total
		if p.Population > target.Population/2 && p.Name != "" {
			target.Name = p.Name
		}
	}
	return merged
}

// projectPlaces maps lat/lon onto a local equirectangular plane in
// meters, centered on the mean latitude, and fills in the zone volumes
func projectPlaces(places []*place) []model.Zone {
	var meanLat float64
	for _, p := range places {
		meanLat += p.Lat
	}
	if len(places) > 0 {
		meanLat /= float64(len(places))
	}
	cosLat := math.Cos(meanLat * math.Pi / 180)

	zones := make([]model.Zone, 0, len(places))
	for _, p := range places {
		zones = append(zones, model.Zone{
			Name:        p.Name,
			Origin:      p.Population,
			Destination: p.Population,
			Weight:      p.Population,
			X:           earthRadiusMeters * cosLat * p.Lon * math.Pi / 180,
			Y:           earthRadiusMeters * p.Lat * math.Pi / 180,
		})
	}
	return zones
}
