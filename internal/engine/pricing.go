package engine

import (
	"math"
	"time"
)

const (
	baseFee       = 7.0
	includedKm    = 5.0
	perExtraKm    = 1.5
	lunchFactor   = 1.2  // 11h-14h
	dinnerFactor  = 1.3  // 18h-20h
	weekendFactor = 1.15 // Saturday and Sunday
)

// DynamicFee suggests a courier fee for a trip of the given length at the
// given local time. The distance surcharge is added before any multiplier;
// multipliers apply in order lunch, dinner, weekend. The peak windows are
// independent conditions, not an either/or. Result is rounded half-up to two
// decimal places.
func DynamicFee(distanceKm float64, at time.Time) float64 {
	fee := baseFee
	if distanceKm > includedKm {
		fee += (distanceKm - includedKm) * perExtraKm
	}

	hour := at.Hour()
	if hour >= 11 && hour <= 14 {
		fee *= lunchFactor
	}
	if hour >= 18 && hour <= 20 {
		fee *= dinnerFactor
	}
	if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
		fee *= weekendFactor
	}

	return math.Round(fee*100) / 100
}
