package engine

import (
	"sort"
	"strings"

	"github.com/example/guriri-dispatch/internal/geo"
	"github.com/example/guriri-dispatch/internal/models"
)

// OrderPriority scores an order in [0,100], higher meaning deliver first.
// High freight values and generous courier fees bump the score, as does the
// keyword "urgente" anywhere in the notes. Unparseable money fields count
// as zero.
func OrderPriority(order models.Order) int {
	priority := 50

	value, _ := geo.ParseDecimal(order.FreightValue)
	switch {
	case value > 100:
		priority += 20
	case value > 50:
		priority += 10
	}

	fee, _ := geo.ParseDecimal(order.CourierFee)
	switch {
	case fee > 15:
		priority += 30
	case fee > 10:
		priority += 15
	}

	if strings.Contains(strings.ToLower(order.Notes), "urgente") {
		priority += 25
	}

	if priority > 100 {
		priority = 100
	}
	return priority
}

// OptimizeRoutes returns the courier's in-progress orders sorted by priority,
// highest first. The input slice is left untouched.
func OptimizeRoutes(orders []models.Order, motoboy models.Motoboy) []models.Order {
	backlog := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.MotoboyID == motoboy.ID && o.Status == models.StatusInProgress {
			backlog = append(backlog, o)
		}
	}
	sort.SliceStable(backlog, func(i, j int) bool {
		return OrderPriority(backlog[i]) > OrderPriority(backlog[j])
	})
	return backlog
}
