// Package locations tracks the latest known GPS fix per courier. The engine
// never reads it directly: callers take a snapshot for the couriers they care
// about and pass it in.
package locations

import (
	"sync"
	"time"

	"github.com/example/guriri-dispatch/internal/models"
)

// Source yields the latest location per courier.
type Source interface {
	Upsert(loc models.MotoboyLocation)
	Latest(motoboyIDs []string) map[string]models.MotoboyLocation
}

// Index is the in-memory Source used when no Redis is configured.
type Index struct {
	mu   sync.RWMutex
	byID map[string]models.MotoboyLocation
}

func NewIndex() *Index {
	return &Index{byID: make(map[string]models.MotoboyLocation)}
}

func (x *Index) Upsert(loc models.MotoboyLocation) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if loc.Recorded.IsZero() {
		loc.Recorded = time.Now()
	}
	x.byID[loc.MotoboyID] = loc
}

func (x *Index) Latest(motoboyIDs []string) map[string]models.MotoboyLocation {
	x.mu.RLock()
	defer x.mu.RUnlock()
	out := make(map[string]models.MotoboyLocation, len(motoboyIDs))
	for _, id := range motoboyIDs {
		if loc, ok := x.byID[id]; ok {
			out[id] = loc
		}
	}
	return out
}
