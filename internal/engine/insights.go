package engine

import (
	"math"

	"github.com/example/guriri-dispatch/internal/geo"
	"github.com/example/guriri-dispatch/internal/models"
)

// Insights aggregates operational metrics and recommendations for the
// central's dashboard.
type Insights struct {
	TotalRevenue    float64  `json:"totalRevenue"`
	AvgDeliveryTime int      `json:"avgDeliveryTime"` // minutes
	AcceptanceRate  float64  `json:"acceptanceRate"`  // percent, one decimal
	TopMotoboy      string   `json:"topMotoboy,omitempty"`
	Recommendations []string `json:"recommendations"`
}

// GenerateInsights computes dashboard metrics over snapshots of all orders and
// couriers: revenue of delivered orders, average accept-to-deliver time,
// acceptance rate, the courier with the most deliveries, and threshold-driven
// recommendations.
func GenerateInsights(orders []models.Order, motoboys []models.Motoboy) Insights {
	delivered := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == models.StatusDelivered {
			delivered = append(delivered, o)
		}
	}

	var totalRevenue float64
	for _, o := range delivered {
		v, _ := geo.ParseDecimal(o.FreightValue)
		totalRevenue += v
	}

	var totalMinutes float64
	var timed int
	for _, o := range delivered {
		if o.AcceptedAt == nil || o.DeliveredAt == nil {
			continue
		}
		totalMinutes += o.DeliveredAt.Sub(*o.AcceptedAt).Minutes()
		timed++
	}
	var avgDeliveryTime float64
	if timed > 0 {
		avgDeliveryTime = totalMinutes / float64(timed)
	}

	var accepted int
	for _, o := range orders {
		if o.Status != models.StatusPending {
			accepted++
		}
	}
	var acceptanceRate float64
	if len(orders) > 0 {
		acceptanceRate = float64(accepted) / float64(len(orders)) * 100
	}

	deliveriesBy := make(map[string]int)
	for _, o := range delivered {
		if o.MotoboyID != "" {
			deliveriesBy[o.MotoboyID]++
		}
	}
	var topMotoboy string
	var maxDeliveries int
	for id, n := range deliveriesBy {
		if n > maxDeliveries || (n == maxDeliveries && topMotoboy != "" && id < topMotoboy) {
			maxDeliveries = n
			topMotoboy = id
		}
	}

	recommendations := []string{}
	if acceptanceRate < 70 {
		recommendations = append(recommendations, "Taxa de aceitação baixa. Considere aumentar as taxas dos motoboys.")
	}
	if avgDeliveryTime > 60 {
		recommendations = append(recommendations, "Tempo médio de entrega alto. Revise rotas e disponibilidade de motoboys.")
	}
	var online int
	for _, m := range motoboys {
		if m.Online {
			online++
		}
	}
	if online < 3 {
		recommendations = append(recommendations, "Poucos motoboys online. Considere recrutar mais ou oferecer incentivos.")
	}
	if totalRevenue > 0 && totalRevenue/float64(len(delivered)) < 30 {
		recommendations = append(recommendations, "Valor médio dos pedidos baixo. Considere estratégias de upsell.")
	}

	return Insights{
		TotalRevenue:    math.Round(totalRevenue*100) / 100,
		AvgDeliveryTime: int(math.Round(avgDeliveryTime)),
		AcceptanceRate:  math.Round(acceptanceRate*10) / 10,
		TopMotoboy:      topMotoboy,
		Recommendations: recommendations,
	}
}
