package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"

	"adazone/internal/model"
)

// loadZonesFromCSV reads atomic zones from a CSV file with the columns
// name,origin,destination,weight,x,y. A header row is detected and
// skipped.
func loadZonesFromCSV(path string) ([]model.Zone, error) {
	log.Printf("Loading zones from CSV file: %s", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}

	var zones []model.Zone
	for i, record := range records {
		if len(record) != 6 {
			return nil, fmt.Errorf("row %d has %d columns, want 6", i+1, len(record))
		}
		// Skip a header row
		if i == 0 {
			if _, err := strconv.ParseFloat(record[1], 64); err != nil {
				continue
			}
		}

		values := make([]float64, 5)
		for j := 1; j < 6; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, j+1, err)
			}
			values[j-1] = v
		}

		zones = append(zones, model.Zone{
			Name:        record[0],
			Origin:      values[0],
			Destination: values[1],
			Weight:      values[2],
			X:           values[3],
			Y:           values[4],
		})
	}

	return zones, nil
}
