package pipeline

import (
	"sync"
	"time"

	"github.com/KajetanPoliak/proklep/internal/model"
)

// Aggregator accumulates per-listing outcomes into the run summary. Safe
// for concurrent Record calls from the worker pool.
type Aggregator struct {
	mu       sync.Mutex
	summary  model.RunSummary
	findings int
	checked  int
}

// NewAggregator starts a run summary for the given configuration.
func NewAggregator(cfg *model.Config) *Aggregator {
	summary := model.RunSummary{
		StartedAt: time.Now().UTC(),
		UseLLM:    cfg.LLM.Enabled,
	}
	if cfg.LLM.Enabled {
		summary.LLMModel = cfg.LLM.ResolvedModel()
		summary.LLMTemperature = cfg.LLM.ClampedTemperature()
	}
	return &Aggregator{summary: summary}
}

// Record folds one outcome into the summary.
func (a *Aggregator) Record(o *Outcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if o.Err != nil || o.Listing == nil {
		a.summary.FailedListings++
		return
	}

	a.summary.TotalURLsProcessed++
	if len(o.Listing.MissingCritical) > 0 {
		a.summary.PartialExtractions++
	}
	if o.Facts != nil && o.Facts.Degraded {
		a.summary.DegradedAnalyses++
	}
	if o.Report != nil {
		a.checked++
		a.findings += o.Report.TotalInconsistencies
		if o.Report.IsConsistent {
			a.summary.ConsistentListings++
		} else {
			a.summary.InconsistentListings++
		}
	}
}

// Summary finalizes and returns the run summary.
func (a *Aggregator) Summary() model.RunSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	summary := a.summary
	summary.FinishedAt = time.Now().UTC()
	if a.checked > 0 {
		summary.AvgFindingsPerListing = float64(a.findings) / float64(a.checked)
	}
	return summary
}
