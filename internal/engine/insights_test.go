package engine

import (
	"testing"
	"time"

	"github.com/example/guriri-dispatch/internal/models"
)

func TestGenerateInsights(t *testing.T) {
	base := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	accept1, deliver1 := base, base.Add(30*time.Minute)
	accept2, deliver2 := base, base.Add(50*time.Minute)

	orders := []models.Order{
		{ID: "o1", MotoboyID: "m1", Status: models.StatusDelivered, FreightValue: "100", AcceptedAt: &accept1, DeliveredAt: &deliver1},
		{ID: "o2", MotoboyID: "m1", Status: models.StatusDelivered, FreightValue: "40", AcceptedAt: &accept2, DeliveredAt: &deliver2},
		{ID: "o3", Status: models.StatusPending, FreightValue: "10"},
	}
	motoboys := []models.Motoboy{{ID: "m1", Online: true}, {ID: "m2"}}

	got := GenerateInsights(orders, motoboys)

	if got.TotalRevenue != 140 {
		t.Errorf("TotalRevenue = %v, want 140", got.TotalRevenue)
	}
	if got.AvgDeliveryTime != 40 {
		t.Errorf("AvgDeliveryTime = %v, want 40", got.AvgDeliveryTime)
	}
	if got.AcceptanceRate != 66.7 {
		t.Errorf("AcceptanceRate = %v, want 66.7", got.AcceptanceRate)
	}
	if got.TopMotoboy != "m1" {
		t.Errorf("TopMotoboy = %q, want m1", got.TopMotoboy)
	}
	// low acceptance and few couriers online trigger recommendations;
	// delivery time and average value are healthy
	if len(got.Recommendations) != 2 {
		t.Errorf("Recommendations = %v, want 2 entries", got.Recommendations)
	}
}

func TestGenerateInsightsEmpty(t *testing.T) {
	got := GenerateInsights(nil, nil)
	if got.TotalRevenue != 0 || got.AvgDeliveryTime != 0 || got.AcceptanceRate != 0 || got.TopMotoboy != "" {
		t.Fatalf("empty inputs must produce zero metrics, got %+v", got)
	}
}
