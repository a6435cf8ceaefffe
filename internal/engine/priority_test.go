package engine

import (
	"reflect"
	"testing"

	"github.com/example/guriri-dispatch/internal/models"
)

func TestOrderPriorityBase(t *testing.T) {
	if got := OrderPriority(models.Order{}); got != 50 {
		t.Fatalf("empty order priority = %d, want 50", got)
	}
	if got := OrderPriority(models.Order{FreightValue: "garbage", CourierFee: ""}); got != 50 {
		t.Fatalf("unparseable money fields must count as zero, got %d", got)
	}
}

func TestOrderPriorityBumps(t *testing.T) {
	cases := []struct {
		name  string
		order models.Order
		want  int
	}{
		{"mid value", models.Order{FreightValue: "60"}, 60},
		{"high value", models.Order{FreightValue: "120"}, 70},
		{"mid fee", models.Order{CourierFee: "12"}, 65},
		{"high fee", models.Order{CourierFee: "20"}, 80},
		{"urgent note", models.Order{Notes: "entregar URGENTE por favor"}, 75},
		{"capped at 100", models.Order{FreightValue: "120", CourierFee: "20", Notes: "urgente"}, 100},
	}
	for _, c := range cases {
		if got := OrderPriority(c.order); got != c.want {
			t.Errorf("%s: got %d, want %d", c.name, got, c.want)
		}
	}
}

func TestOrderPriorityMonotonicInValue(t *testing.T) {
	prev := -1
	for _, v := range []string{"0", "50", "51", "100", "101", "500"} {
		got := OrderPriority(models.Order{FreightValue: v})
		if got < prev {
			t.Fatalf("priority decreased at value %s: %d < %d", v, got, prev)
		}
		prev = got
	}
}

func TestOptimizeRoutes(t *testing.T) {
	mb := models.Motoboy{ID: "m1"}
	orders := []models.Order{
		{ID: "other", MotoboyID: "m2", Status: models.StatusInProgress, FreightValue: "500"},
		{ID: "low", MotoboyID: "m1", Status: models.StatusInProgress},
		{ID: "done", MotoboyID: "m1", Status: models.StatusDelivered, FreightValue: "500"},
		{ID: "high", MotoboyID: "m1", Status: models.StatusInProgress, FreightValue: "120", Notes: "urgente"},
	}
	snapshot := make([]models.Order, len(orders))
	copy(snapshot, orders)

	got := OptimizeRoutes(orders, mb)

	if len(got) != 2 || got[0].ID != "high" || got[1].ID != "low" {
		ids := make([]string, len(got))
		for i, o := range got {
			ids[i] = o.ID
		}
		t.Fatalf("got %v, want [high low]", ids)
	}
	if !reflect.DeepEqual(orders, snapshot) {
		t.Fatal("OptimizeRoutes must not mutate its input")
	}
}
