package model

import (
	"time"

	"gorm.io/gorm"
)

// Zone is one atomic zone of a build request: trip production and
// attraction volumes, a clustering weight and a plane centroid.
type Zone struct {
	Name        string  `json:"name"`
	Origin      float64 `json:"origin"`
	Destination float64 `json:"destination"`
	Weight      float64 `json:"weight"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// ZoneSystemPG model for PostgreSQL storage of a built zone system
type ZoneSystemPG struct {
	ID       string  `json:"id" gorm:"primaryKey"`
	Name     string  `json:"name" gorm:"size:255;not null"`
	Beta     float64 `json:"beta" gorm:"not null"`
	NbhSize  int     `json:"nbh_size" gorm:"not null"`
	NumLeafs int     `json:"num_leafs" gorm:"not null"`
	NumZones int     `json:"num_zones" gorm:"not null"`

	UpdatedAt time.Time      `json:"updated_at" gorm:"column:updated_at"`
	CreatedAt time.Time      `json:"-" gorm:"column:created_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"column:deleted_at;index"`
}

// NeighbourhoodPG model for PostgreSQL storage of one leaf zone's
// neighbourhood, members serialized as a JSON array of node indices
type NeighbourhoodPG struct {
	ID        uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	SystemID  string `json:"system_id" gorm:"size:64;not null;index"`
	LeafIndex int    `json:"leaf_index" gorm:"not null"`
	Members   string `json:"members" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"-" gorm:"column:created_at"`
}
