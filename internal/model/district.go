package model

// PriceTier is the ordinal price category of a district
type PriceTier string

const (
	TierLow     PriceTier = "low"
	TierMedium  PriceTier = "medium"
	TierHigh    PriceTier = "high"
	TierPremium PriceTier = "premium"
)

// CrimeStats holds normalized per-category incident rates (0.0-1.0,
// higher = worse, scaled to the worst district per category).
type CrimeStats struct {
	Violent  float64 `json:"violent"`
	Burglary float64 `json:"burglary"`
	Fire     float64 `json:"fire"`
}

// Max returns the highest of the three incident rates.
func (c CrimeStats) Max() float64 {
	max := c.Violent
	if c.Burglary > max {
		max = c.Burglary
	}
	if c.Fire > max {
		max = c.Fire
	}
	return max
}

// DistrictStats is the static enrichment record for one administrative
// district. Loaded once at startup, never mutated.
type DistrictStats struct {
	District           string     `json:"district,omitempty"` // Neighborhood the lookup resolved through
	AdminDistrict      string     `json:"adminDistrict"`      // e.g. "Praha 10"
	AvgPricePerM2      int        `json:"avgPricePerM2"`      // CZK
	PriceChangePercent float64    `json:"priceChangePercent"` // Year over year
	PriceTier          PriceTier  `json:"priceTier"`
	KebabIndex         float64    `json:"kebabIndex"` // Amenity density 0.0-1.0, higher = better
	Crime              CrimeStats `json:"crimeStats"`
}
