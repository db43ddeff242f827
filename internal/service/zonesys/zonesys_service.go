package zonesys

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"adazone/internal/model"
	pg "adazone/internal/postgres"
	"adazone/internal/service/storage"
	"adazone/internal/zoning"

	"github.com/google/uuid"
)

// StoredSystem is a built zone system held in memory under a stable id.
type StoredSystem struct {
	ID        string
	Name      string
	System    *zoning.ZoneSystem
	CreatedAt time.Time
}

// ZoneSystemService builds adaptive zone systems and keeps them in memory
// for querying; summaries and neighbourhoods are persisted to PostgreSQL
// by the persistence worker.
type ZoneSystemService struct {
	systems storage.Storage[string, *StoredSystem]
}

var (
	serviceInstance *ZoneSystemService
	serviceOnce     sync.Once
)

// GetZoneSystemService returns the singleton instance of ZoneSystemService.
func GetZoneSystemService() *ZoneSystemService {
	serviceOnce.Do(func() {
		serviceInstance = &ZoneSystemService{
			systems: storage.NewMemoryStorage[string, *StoredSystem](),
		}
	})
	return serviceInstance
}

// Build constructs a zone system from atomic zones and stores it under a
// fresh id.
func (s *ZoneSystemService) Build(name string, zones []model.Zone, beta float64, nbhSize int) (*StoredSystem, error) {
	if len(zones) == 0 {
		return nil, fmt.Errorf("no zones given")
	}

	origins := make([]float64, len(zones))
	destinations := make([]float64, len(zones))
	weights := make([]float64, len(zones))
	centroids := make([]zoning.Point, len(zones))
	for i, z := range zones {
		origins[i] = z.Origin
		destinations[i] = z.Destination
		weights[i] = z.Weight
		centroids[i] = zoning.Point{X: z.X, Y: z.Y}
	}

	system, err := zoning.NewZoneSystem(origins, destinations, weights, centroids, beta, nbhSize)
	if err != nil {
		return nil, fmt.Errorf("failed to build zone system %q: %w", name, err)
	}

	stored := &StoredSystem{
		ID:        uuid.NewString(),
		Name:      name,
		System:    system,
		CreatedAt: time.Now(),
	}
	s.systems.Set(stored.ID, stored)

	log.Printf("Built zone system %q (%s): %d atomic zones, %d total zones",
		name, stored.ID, system.NumAtomicZones(), system.NumZones())
	return stored, nil
}

// Get returns a stored system by id.
func (s *ZoneSystemService) Get(id string) (*StoredSystem, bool) {
	return s.systems.Get(id)
}

// Delete removes a stored system.
func (s *ZoneSystemService) Delete(id string) bool {
	return s.systems.Delete(id)
}

// List returns all stored systems, newest first.
func (s *ZoneSystemService) List() []*StoredSystem {
	all := s.systems.GetAllValues()
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all
}

// Count returns the number of stored systems.
func (s *ZoneSystemService) Count() int {
	return s.systems.Count()
}

// PersistDirty writes summaries and neighbourhoods of systems built since
// the last flush to PostgreSQL. A nil database connection skips the flush.
func (s *ZoneSystemService) PersistDirty() error {
	db := pg.GetDB()
	if db == nil {
		return nil
	}

	dirty := s.systems.GetDirty()
	if len(dirty) == 0 {
		return nil
	}

	persisted := make([]string, 0, len(dirty))
	for id, stored := range dirty {
		row := model.ZoneSystemPG{
			ID:       stored.ID,
			Name:     stored.Name,
			Beta:     stored.System.Beta(),
			NbhSize:  stored.System.NeighbourhoodSize(),
			NumLeafs: stored.System.NumAtomicZones(),
			NumZones: stored.System.NumZones(),
		}
		if err := db.Save(&row).Error; err != nil {
			return fmt.Errorf("failed to persist zone system %s: %w", id, err)
		}

		for leaf, nbh := range stored.System.Neighbourhoods() {
			members := make([]int, 0, len(nbh))
			for m := range nbh {
				members = append(members, m)
			}
			sort.Ints(members)
			encoded, err := json.Marshal(members)
			if err != nil {
				return err
			}
			nbhRow := model.NeighbourhoodPG{
				SystemID:  stored.ID,
				LeafIndex: leaf,
				Members:   string(encoded),
			}
			if err := db.Create(&nbhRow).Error; err != nil {
				return fmt.Errorf("failed to persist neighbourhood %d of system %s: %w", leaf, id, err)
			}
		}
		persisted = append(persisted, id)
	}

	s.systems.ClearDirty(persisted)
	log.Printf("Persisted %d zone systems", len(persisted))
	return nil
}
