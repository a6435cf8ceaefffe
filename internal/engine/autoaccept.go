package engine

import (
	"github.com/example/guriri-dispatch/internal/geo"
	"github.com/example/guriri-dispatch/internal/models"
)

// ShouldAutoAccept reports whether a courier's standing offer should confirm
// the order without manual action. A fee at or above 1.5x the courier's
// standard fee always accepts, online or not; an online courier accepts
// anything at or above their standard fee. Everything else waits for a human.
func ShouldAutoAccept(order models.Order, motoboy models.Motoboy) bool {
	fee, _ := geo.ParseDecimal(order.CourierFee)
	standard, _ := geo.ParseDecimal(motoboy.StandardFee)

	if fee >= standard*1.5 {
		return true
	}
	return motoboy.Online && fee >= standard
}
