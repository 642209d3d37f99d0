package model

// StructuredFacts is the model-derived re-interpretation of a listing plus
// its enrichment data. Produced once per listing and treated as ground truth
// by the consistency checker; never mutated afterwards.
type StructuredFacts struct {
	ListingID   string   `json:"listingId"`
	Bedrooms    *int     `json:"bedrooms,omitempty"`
	Bathrooms   *float64 `json:"bathrooms,omitempty"` // Decimal for half-baths
	FloorAreaM2 *float64 `json:"floorAreaM2,omitempty"`
	PriceCZK    *float64 `json:"priceCZK,omitempty"`
	PricePerM2  *float64 `json:"pricePerM2,omitempty"`

	// Enrichment copies so the checker can cross-reference without
	// re-deriving them.
	AvgDistrictPricePerM2 *float64    `json:"avgDistrictPricePerM2,omitempty"`
	KebabIndex            *float64    `json:"kebabIndex,omitempty"`
	Crime                 *CrimeStats `json:"crimeStats,omitempty"`

	Summary string `json:"summary,omitempty"`

	// Degraded marks the deterministic fallback path: the structured
	// generation capability failed and these facts were built purely from
	// already-parsed listing fields.
	Degraded bool   `json:"degraded"`
	Model    string `json:"model,omitempty"`
}
