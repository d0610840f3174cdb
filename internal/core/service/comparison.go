package service

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carjai/marketplace-client/internal/core/domain"
	"github.com/carjai/marketplace-client/internal/core/ports"
)

const (
	ComparisonKey = "carjai_comparison"
	MaxComparison = 4
)

// Comparison is the bounded, ordered set of cars the visitor is comparing.
// It is independent of identity. Mutations apply in memory immediately and
// are persisted in the background in the order they happened.
type Comparison struct {
	store ports.ClientStorage
	tasks ports.TaskQueue
	log   zerolog.Logger

	mu   sync.RWMutex
	cars []domain.CarListing
}

// NewComparison hydrates the set once from storage. Missing or malformed
// data yields an empty set; anything beyond the cap is dropped.
func NewComparison(ctx context.Context, store ports.ClientStorage, tasks ports.TaskQueue, log zerolog.Logger) *Comparison {
	c := &Comparison{store: store, tasks: tasks, log: log}
	c.cars = c.hydrate(ctx)
	return c
}

func (c *Comparison) hydrate(ctx context.Context) []domain.CarListing {
	raw, ok, err := c.store.Get(ctx, ComparisonKey)
	if err != nil {
		c.log.Debug().Err(err).Msg("comparison hydrate failed")
		return nil
	}
	if !ok {
		return nil
	}
	var cars []domain.CarListing
	if err := json.Unmarshal(raw, &cars); err != nil {
		c.log.Debug().Err(err).Msg("discarding malformed comparison data")
		return nil
	}
	if len(cars) > MaxComparison {
		cars = cars[:MaxComparison]
	}
	return cars
}

// Add appends car unless it is already present or the set is full.
func (c *Comparison) Add(car domain.CarListing) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.cars) >= MaxComparison || c.indexLocked(car.ID) >= 0 {
		return false
	}
	c.cars = append(c.cars, car)
	c.persistLocked()
	return true
}

// Remove drops carID from the set, reporting whether it was present.
func (c *Comparison) Remove(carID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(carID)
	if i < 0 {
		return false
	}
	c.cars = slices.Delete(c.cars, i, i+1)
	c.persistLocked()
	return true
}

func (c *Comparison) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cars = nil
	c.persistLocked()
}

func (c *Comparison) IsPresent(carID int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexLocked(carID) >= 0
}

func (c *Comparison) CanAddMore() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cars) < MaxComparison
}

func (c *Comparison) List() []domain.CarListing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.cars)
}

func (c *Comparison) indexLocked(carID int) int {
	return slices.IndexFunc(c.cars, func(car domain.CarListing) bool { return car.ID == carID })
}

func (c *Comparison) persistLocked() {
	snapshot := slices.Clone(c.cars)
	if snapshot == nil {
		snapshot = []domain.CarListing{}
	}
	c.tasks.Enqueue(ports.Task{Key: ComparisonKey, Run: func(ctx context.Context) error {
		raw, err := json.Marshal(snapshot)
		if err != nil {
			return err
		}
		return c.store.Set(ctx, ComparisonKey, raw)
	}})
}
