// Package engine holds the dispatch heuristics: courier assignment, dynamic
// fee suggestion, order priority, auto-accept, and route ordering. Everything
// here works over caller-supplied snapshots; the only external dependency is
// the schedule lookup, injected as ScheduleSource.
package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/guriri-dispatch/internal/geo"
	"github.com/example/guriri-dispatch/internal/models"
	"github.com/example/guriri-dispatch/internal/observability"
)

// Fallback pickup point for orders without usable coordinates.
const (
	defaultPickupLat = -19.0
	defaultPickupLng = -40.0
)

const onlineBonus = 20.0

// ScheduleSource yields a courier's weekly availability grid.
type ScheduleSource interface {
	MotoboySchedules(ctx context.Context, motoboyID string) ([]models.Schedule, error)
}

// Engine is safe for concurrent use: every invocation operates over the
// candidate list and location map passed by the caller.
type Engine struct {
	Schedules ScheduleSource

	now func() time.Time
}

func New(schedules ScheduleSource) *Engine {
	return &Engine{Schedules: schedules, now: time.Now}
}

type shift int

const (
	shiftMorning shift = iota
	shiftAfternoon
	shiftNight // wraps midnight: [18,24) and [0,6)
)

func shiftForHour(hour int) shift {
	switch {
	case hour >= 6 && hour < 12:
		return shiftMorning
	case hour >= 12 && hour < 18:
		return shiftAfternoon
	default:
		return shiftNight
	}
}

func shiftActive(s models.Schedule, sh shift) bool {
	switch sh {
	case shiftMorning:
		return s.Morning
	case shiftAfternoon:
		return s.Afternoon
	default:
		return s.Night
	}
}

// candidateScore tags disqualified couriers explicitly instead of carrying a
// -Inf sentinel through the sort.
type candidateScore struct {
	motoboyID string
	distance  float64
	score     float64
	eligible  bool
}

// AssignBestMotoboy picks a courier for the order. Candidates are filtered to
// those whose schedule covers today's weekday and the current shift, then
// scored as 100 - distance*10 with a +20 bonus for couriers marked online;
// the highest score wins. ok is false when no courier is available right now,
// which the caller treats as a business outcome (requeue), not an error.
// A schedule lookup failure propagates untouched.
func (e *Engine) AssignBestMotoboy(ctx context.Context, order models.Order, candidates []models.Motoboy, locations map[string]models.MotoboyLocation) (string, bool, error) {
	if len(candidates) == 0 {
		return "", false, nil
	}

	now := e.now()
	today := int(now.Weekday())
	sh := shiftForHour(now.Hour())

	// one schedule lookup per candidate, all in flight together; results are
	// zipped back by index so completion order does not matter
	schedules := make([][]models.Schedule, len(candidates))
	errs := make([]error, len(candidates))
	var wg sync.WaitGroup
	for i, m := range candidates {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			schedules[i], errs[i] = e.Schedules.MotoboySchedules(ctx, id)
		}(i, m.ID)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return "", false, err
		}
	}

	workingNow := make([]models.Motoboy, 0, len(candidates))
	for i, m := range candidates {
		var todayRow *models.Schedule
		for j := range schedules[i] {
			if schedules[i][j].Weekday == today {
				todayRow = &schedules[i][j]
				break
			}
		}
		// no row for today means the courier does not work today
		if todayRow == nil || !shiftActive(*todayRow, sh) {
			continue
		}
		workingNow = append(workingNow, m)
	}
	if len(workingNow) == 0 {
		observability.AssignmentsUnfilled.Inc()
		return "", false, nil
	}

	orderLat, orderLng := pickupPoint(order)

	scores := make([]candidateScore, 0, len(workingNow))
	for _, m := range workingNow {
		loc, ok := locations[m.ID]
		if !ok {
			scores = append(scores, candidateScore{motoboyID: m.ID})
			continue
		}
		lat, okLat := geo.ParseDecimal(loc.Latitude)
		lng, okLng := geo.ParseDecimal(loc.Longitude)
		if !okLat || !okLng {
			scores = append(scores, candidateScore{motoboyID: m.ID})
			continue
		}
		dist := geo.Distance(orderLat, orderLng, lat, lng)
		score := 100 - dist*10
		if m.Online {
			score += onlineBonus
		}
		scores = append(scores, candidateScore{motoboyID: m.ID, distance: dist, score: score, eligible: true})
	}

	valid := make([]candidateScore, 0, len(scores))
	for _, s := range scores {
		if s.eligible {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		observability.AssignmentsUnfilled.Inc()
		return "", false, nil
	}

	// stable sort: ties resolve to the earlier candidate in the caller's list
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].score > valid[j].score })

	observability.AssignmentsTotal.Inc()
	return valid[0].motoboyID, true, nil
}

func pickupPoint(order models.Order) (float64, float64) {
	lat, ok := geo.ParseDecimal(order.PickupLat)
	if !ok {
		lat = defaultPickupLat
	}
	lng, ok := geo.ParseDecimal(order.PickupLng)
	if !ok {
		lng = defaultPickupLng
	}
	return lat, lng
}
