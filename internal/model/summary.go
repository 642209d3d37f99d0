package model

import "time"

// RunSummary is the single process-wide record emitted at the end of a run
type RunSummary struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	TotalURLsProcessed   int `json:"totalUrlsProcessed"` // Successfully processed listings
	ConsistentListings   int `json:"consistentListings"`
	InconsistentListings int `json:"inconsistentListings"`
	FailedListings       int `json:"failedListings"`
	PartialExtractions   int `json:"partialExtractions"` // Successful, but with missing critical fields
	DegradedAnalyses     int `json:"degradedAnalyses"`

	AvgFindingsPerListing float64 `json:"avgFindingsPerListing"`

	// Configuration in effect for the run
	UseLLM         bool    `json:"useLLM"`
	LLMModel       string  `json:"llmModel,omitempty"`
	LLMTemperature float32 `json:"llmTemperature,omitempty"`
}
