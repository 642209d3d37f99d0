package model

import "time"

// Severity grades how serious an inconsistency is
type Severity string

const (
	SeverityCritical Severity = "critical" // Major contradiction
	SeverityMedium   Severity = "medium"   // Notable inconsistency
	SeverityLow      Severity = "low"      // Minor discrepancy
)

// Rank orders severities for sorting, critical first.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

// Finding is one detected discrepancy between the free-text description and
// the structured facts
type Finding struct {
	FieldName       string   `json:"field_name"`
	DescriptionSays string   `json:"description_says"`
	ListingDataSays string   `json:"listing_data_says"`
	Severity        Severity `json:"severity"`
	Explanation     string   `json:"explanation"`
}

// ConsistencyReport is the per-listing check result
type ConsistencyReport struct {
	ListingID            string    `json:"listing_id"`
	PropertyAddress      string    `json:"property_address"`
	CheckedAt            time.Time `json:"checked_at"`
	TotalInconsistencies int       `json:"total_inconsistencies"`
	IsConsistent         bool      `json:"is_consistent"` // True iff no findings
	Findings             []Finding `json:"findings"`
	Summary              string    `json:"summary"`
}
