// Package pipeline orchestrates the per-listing flow: fetch, extract,
// normalize, enrich, convert to facts and check consistency.
package pipeline

import (
	"context"
	"fmt"

	"github.com/KajetanPoliak/proklep/internal/cache"
	"github.com/KajetanPoliak/proklep/internal/check"
	"github.com/KajetanPoliak/proklep/internal/enrich"
	"github.com/KajetanPoliak/proklep/internal/extract"
	"github.com/KajetanPoliak/proklep/internal/extract/sources"
	"github.com/KajetanPoliak/proklep/internal/facts"
	"github.com/KajetanPoliak/proklep/internal/llm"
	"github.com/KajetanPoliak/proklep/internal/model"
	"github.com/KajetanPoliak/proklep/internal/normalize"
)

// DocumentFetcher retrieves and parses one listing page.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*extract.Document, error)
}

// Outcome is the complete per-listing result. Err is set on hard failures;
// everything else degrades into absent fields instead.
type Outcome struct {
	URL     string
	Listing *model.CanonicalListing
	Stats   *model.DistrictStats
	Facts   *model.StructuredFacts
	Report  *model.ConsistencyReport
	Err     error
}

// Pipeline runs the listing flow. Safe for concurrent use; all components
// are stateless or internally synchronized.
type Pipeline struct {
	fetcher    DocumentFetcher
	registry   *sources.Registry
	normalizer *normalize.Normalizer
	districts  *enrich.Table
	converter  *facts.Converter
	checker    *check.Checker
	cfg        *model.Config
}

// New creates a Pipeline. fetcher may be nil when only ProcessHTML is used.
// responses is the cache handed to the LLM provider; nil disables response
// caching.
func New(cfg *model.Config, fetcher DocumentFetcher, responses cache.Cache) (*Pipeline, error) {
	districts, err := enrich.Load()
	if err != nil {
		return nil, fmt.Errorf("load district table: %w", err)
	}

	provider, err := llm.NewProvider(cfg.LLM, responses)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		fetcher:    fetcher,
		registry:   sources.NewRegistry(),
		normalizer: normalize.New(districts.AdminDistrict),
		districts:  districts,
		converter:  facts.New(provider, cfg.LLM),
		checker:    check.New(cfg.Checks),
		cfg:        cfg,
	}, nil
}

// CheckURL fetches and processes one listing URL.
func (p *Pipeline) CheckURL(ctx context.Context, url string) *Outcome {
	doc, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return &Outcome{URL: url, Err: fmt.Errorf("fetch: %w", err)}
	}
	return p.ProcessDocument(ctx, doc)
}

// ProcessHTML processes already-fetched HTML, bypassing the fetcher.
func (p *Pipeline) ProcessHTML(ctx context.Context, url, html string) *Outcome {
	doc, err := extract.ParseDocument(url, html)
	if err != nil {
		return &Outcome{URL: url, Err: fmt.Errorf("parse: %w", err)}
	}
	return p.ProcessDocument(ctx, doc)
}

// ProcessDocument runs the extraction-to-report flow for a parsed page.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc *extract.Document) *Outcome {
	outcome := &Outcome{URL: doc.URL}

	raw := p.registry.ForURL(doc.URL).Extract(doc)

	listing, err := p.normalizer.Normalize(raw)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Listing = listing

	if stats, ok := p.districts.Lookup(listing.Location.City, listing.Location.District); ok {
		outcome.Stats = &stats
	}

	// The analysis stage is gated as a whole: with the LLM disabled the
	// run emits listing records only.
	if !p.cfg.LLM.Enabled {
		return outcome
	}

	outcome.Facts = p.converter.Convert(ctx, listing, outcome.Stats)
	if p.cfg.LLM.MockInconsistencies {
		outcome.Report = check.MockReport(listing)
	} else {
		outcome.Report = p.checker.Check(listing, outcome.Stats, outcome.Facts)
	}
	return outcome
}
