package models

import "time"

// Order lifecycle statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Order is a delivery request. Monetary and coordinate fields are decimal
// strings exactly as the database layer hands them back; converting them to
// numbers (and picking defaults) is the engine's job. JSON tags keep the wire
// names of the dashboard API.
type Order struct {
	ID            string     `json:"id"`
	ClientID      string     `json:"clientId"`
	MotoboyID     string     `json:"motoboyId"`
	FreightValue  string     `json:"valor"`
	ProductValue  string     `json:"produtoValorTotal"`
	CourierFee    string     `json:"taxaMotoboy"`
	Notes         string     `json:"observacoes"`
	PickupLat     string     `json:"coletaLat"`
	PickupLng     string     `json:"coletaLng"`
	PickupAddress string     `json:"coletaEndereco"`
	PaymentRef    string     `json:"paymentRef,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	AcceptedAt    *time.Time `json:"acceptedAt,omitempty"`
	DeliveredAt   *time.Time `json:"deliveredAt,omitempty"`
}

// Motoboy is a motorcycle courier.
type Motoboy struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Online      bool   `json:"online"`
	StandardFee string `json:"taxaPadrao"`
}

// Schedule is one weekday row of a courier's availability grid. A courier has
// at most one row per weekday.
type Schedule struct {
	MotoboyID string `json:"motoboyId"`
	Weekday   int    `json:"diaSemana"` // 0 = Sunday .. 6 = Saturday
	Morning   bool   `json:"turnoManha"`
	Afternoon bool   `json:"turnoTarde"`
	Night     bool   `json:"turnoNoite"`
}

// MotoboyLocation is the latest known GPS fix for a courier. Freshness is the
// producer's concern; consumers treat it as a snapshot.
type MotoboyLocation struct {
	MotoboyID string    `json:"motoboyId"`
	Latitude  string    `json:"latitude"`
	Longitude string    `json:"longitude"`
	Recorded  time.Time `json:"recorded"`
}

// AssignmentOffer is pushed to a courier when an order is assigned to them.
type AssignmentOffer struct {
	OrderID    string  `json:"order_id"`
	MotoboyID  string  `json:"motoboy_id"`
	DistanceKm float64 `json:"distance_km"`
	Fee        string  `json:"fee"`
}
