// Package decay models perishable product quality loss over a transit leg.
//
// The model is intentionally simple: an hourly spoilage rate selected by
// whether the carried temperature sits inside the product's safe range,
// scaled by an exponential temperature-excess factor above the safe
// ceiling (Arrhenius-like: risk roughly doubles per ~7°C of excess).
package decay

import "math"

// ProductProfile describes a perishable product's temperature tolerance
// and shelf-life characteristics. Profiles are static reference data and
// immutable during a computation.
type ProductProfile struct {
	ID           string  `json:"id" validate:"required"`
	Name         string  `json:"name"`
	SafeTempMinC float64 `json:"safeTempMinC"`
	SafeTempMaxC float64 `json:"safeTempMaxC" validate:"gtefield=SafeTempMinC"`
	OptimalTempC float64 `json:"optimalTempC"`

	// Hourly quality loss in percent per hour
	RefrigeratedRatePerHour float64 `json:"refrigeratedRatePerHour" validate:"gte=0"`
	AmbientRatePerHour      float64 `json:"ambientRatePerHour" validate:"gte=0"`

	ShelfLifeRefrigeratedHours float64 `json:"shelfLifeRefrigeratedHours" validate:"gte=0"`
	ShelfLifeAmbientHours      float64 `json:"shelfLifeAmbientHours" validate:"gte=0"`
}

// InSafeRange reports whether tempC is within the product's safe band.
func (p ProductProfile) InSafeRange(tempC float64) bool {
	return tempC >= p.SafeTempMinC && tempC <= p.SafeTempMaxC
}

// SpoilageRisk estimates quality loss in percent for a transit leg.
// Inside the safe range the refrigerated rate applies; outside, the
// ambient rate is amplified by exp(excess/10) where excess is degrees
// above SafeTempMaxC. The result is clamped to [0, 100] and is
// monotonically non-decreasing in both transitHours and temperature
// excess.
func SpoilageRisk(p ProductProfile, transitHours, ambientTempC float64) float64 {
	if transitHours <= 0 {
		return 0
	}

	rate := p.RefrigeratedRatePerHour
	factor := 1.0
	if !p.InSafeRange(ambientTempC) {
		rate = p.AmbientRatePerHour
		factor = math.Exp(math.Max(0, ambientTempC-p.SafeTempMaxC) / 10.0)
	}

	risk := rate * transitHours * factor
	return clampPercent(risk)
}

// RemainingShelfLife returns the hours of shelf life left after
// elapsedHours under the regime selected by ambientTempC, floored at 0.
func RemainingShelfLife(p ProductProfile, elapsedHours, ambientTempC float64) float64 {
	shelf := p.ShelfLifeRefrigeratedHours
	if !p.InSafeRange(ambientTempC) {
		shelf = p.ShelfLifeAmbientHours
	}
	remaining := shelf - math.Max(0, elapsedHours)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
