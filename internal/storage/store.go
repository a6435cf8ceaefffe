package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/example/guriri-dispatch/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines persistence for orders, couriers, and schedules.
type Store interface {
	SaveOrder(ctx context.Context, o *models.Order) error
	UpdateOrder(ctx context.Context, o *models.Order) error
	OrderByID(ctx context.Context, id string) (models.Order, error)
	Orders(ctx context.Context) ([]models.Order, error)

	Motoboys(ctx context.Context) ([]models.Motoboy, error)
	MotoboyByID(ctx context.Context, id string) (models.Motoboy, error)
	MotoboySchedules(ctx context.Context, motoboyID string) ([]models.Schedule, error)
}

// MemoryStore backs local runs and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	orders    map[string]models.Order
	motoboys  map[string]models.Motoboy
	schedules map[string][]models.Schedule
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:    make(map[string]models.Order),
		motoboys:  make(map[string]models.Motoboy),
		schedules: make(map[string][]models.Schedule),
	}
}

// AddMotoboy registers a courier and their weekly schedule.
func (m *MemoryStore) AddMotoboy(mb models.Motoboy, schedules []models.Schedule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.motoboys[mb.ID] = mb
	m.schedules[mb.ID] = schedules
}

func (m *MemoryStore) SaveOrder(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = *o
	return nil
}

func (m *MemoryStore) UpdateOrder(ctx context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[o.ID]; !ok {
		return ErrNotFound
	}
	m.orders[o.ID] = *o
	return nil
}

func (m *MemoryStore) OrderByID(ctx context.Context, id string) (models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return o, nil
}

func (m *MemoryStore) Orders(ctx context.Context) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) Motoboys(ctx context.Context) ([]models.Motoboy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Motoboy, 0, len(m.motoboys))
	for _, mb := range m.motoboys {
		out = append(out, mb)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) MotoboyByID(ctx context.Context, id string) (models.Motoboy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mb, ok := m.motoboys[id]
	if !ok {
		return models.Motoboy{}, ErrNotFound
	}
	return mb, nil
}

func (m *MemoryStore) MotoboySchedules(ctx context.Context, motoboyID string) ([]models.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows := m.schedules[motoboyID]
	out := make([]models.Schedule, len(rows))
	copy(out, rows)
	return out, nil
}
