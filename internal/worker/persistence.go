package worker

import (
	"log"
	"time"

	"adazone/internal/service/zonesys"
)

const (
	PersistenceWorkerInterval = 30 * time.Second
)

// StartPersistenceWorker starts the worker that flushes freshly built
// zone systems to PostgreSQL
func StartPersistenceWorker() {
	service := zonesys.GetZoneSystemService()

	ticker := time.NewTicker(PersistenceWorkerInterval)
	go func() {
		for range ticker.C {
			if err := service.PersistDirty(); err != nil {
				log.Printf("Persistence worker: flush failed: %v", err)
			}
		}
	}()

	log.Println("Persistence worker started with interval:", PersistenceWorkerInterval)
}
