package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KajetanPoliak/proklep/internal/model"
)

// ListingRecord is the persisted listing document: the canonical listing
// with the district enrichment attached.
type ListingRecord struct {
	model.CanonicalListing
	DistrictStats *model.DistrictStats `json:"districtStats,omitempty"`
}

// Renderer writes per-listing result files and the run summary into the
// output directory.
type Renderer struct {
	dir     string
	verbose bool
}

// NewRenderer creates a Renderer for the given directory. The directory is
// created on first write.
func NewRenderer(cfg model.OutputConfig) *Renderer {
	return &Renderer{dir: cfg.Dir, verbose: cfg.Verbose}
}

// WriteOutcome persists the result files for one listing: always the
// listing record, plus facts and report when the analysis stage ran.
// Failed outcomes produce no files.
func (r *Renderer) WriteOutcome(o *Outcome) error {
	if o.Err != nil || o.Listing == nil {
		return nil
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	id := o.Listing.ListingID
	record := ListingRecord{CanonicalListing: *o.Listing, DistrictStats: o.Stats}
	if err := r.writeJSON(id+".listing.json", record); err != nil {
		return err
	}
	if o.Facts != nil {
		if err := r.writeJSON(id+".facts.json", o.Facts); err != nil {
			return err
		}
	}
	if o.Report != nil {
		if err := r.writeJSON(id+".report.json", o.Report); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary persists the run summary as summary.json.
func (r *Renderer) WriteSummary(summary model.RunSummary) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return r.writeJSON("summary.json", summary)
}

func (r *Renderer) writeJSON(name string, v any) error {
	path := filepath.Join(r.dir, name)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if r.verbose {
		fmt.Printf("✓ Wrote %s\n", path)
	}
	return nil
}
