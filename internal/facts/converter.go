// Package facts converts canonical listings into structured facts, the
// ground-truth record the consistency checker compares descriptions against.
// The conversion prefers the structured-generation provider and falls back
// to a deterministic derivation when the provider is down or misbehaves.
package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/KajetanPoliak/proklep/internal/llm"
	"github.com/KajetanPoliak/proklep/internal/model"
)

const systemPrompt = `You are a real-estate data analyst. Given a property listing and district statistics, respond with a single JSON object with these keys: bedrooms (integer), bathrooms (number), floor_area_m2 (number), price_czk (number), price_per_m2 (number), summary (one sentence, factual). Use null for anything the listing does not state. Never invent values.`

// Converter builds StructuredFacts from canonical listings.
type Converter struct {
	provider llm.Provider
	cfg      model.LLMConfig
}

// New creates a Converter. provider may be nil; conversion then always takes
// the deterministic fallback path.
func New(provider llm.Provider, cfg model.LLMConfig) *Converter {
	return &Converter{provider: provider, cfg: cfg}
}

// factsPayload is the wire shape the model is asked to produce.
type factsPayload struct {
	Bedrooms    *int     `json:"bedrooms"`
	Bathrooms   *float64 `json:"bathrooms"`
	FloorAreaM2 *float64 `json:"floor_area_m2"`
	PriceCZK    *float64 `json:"price_czk"`
	PricePerM2  *float64 `json:"price_per_m2"`
	Summary     string   `json:"summary"`
}

// Convert produces the facts record for one listing. stats may be nil when
// the listing is outside the enrichment dataset. Convert never fails: every
// provider error degrades to fallback facts.
func (c *Converter) Convert(ctx context.Context, listing *model.CanonicalListing, stats *model.DistrictStats) *model.StructuredFacts {
	if c.provider == nil {
		return c.fallback(listing, stats)
	}

	var payload factsPayload
	req := llm.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(listing, stats),
		Model:       c.cfg.ResolvedModel(),
		Temperature: c.cfg.ClampedTemperature(),
		MaxTokens:   c.cfg.MaxTokens,
	}
	if err := c.provider.GenerateJSON(ctx, req, &payload); err != nil {
		return c.fallback(listing, stats)
	}

	facts := &model.StructuredFacts{
		ListingID:   listing.ListingID,
		Bedrooms:    payload.Bedrooms,
		Bathrooms:   payload.Bathrooms,
		FloorAreaM2: payload.FloorAreaM2,
		PriceCZK:    payload.PriceCZK,
		PricePerM2:  payload.PricePerM2,
		Summary:     strings.TrimSpace(payload.Summary),
		Model:       c.cfg.ResolvedModel(),
	}
	fillGaps(facts, listing)
	copyEnrichment(facts, stats)
	return facts
}

// fallback derives facts from already-parsed listing fields alone. Degraded
// facts cap downstream mandatory findings at medium severity.
func (c *Converter) fallback(listing *model.CanonicalListing, stats *model.DistrictStats) *model.StructuredFacts {
	facts := &model.StructuredFacts{
		ListingID: listing.ListingID,
		Degraded:  true,
	}
	fillGaps(facts, listing)
	copyEnrichment(facts, stats)

	if facts.Bedrooms == nil {
		if b, ok := bedroomsFromDisposition(listing.Details.Disposition); ok {
			facts.Bedrooms = &b
		}
	}
	if facts.Bathrooms == nil && listing.Details.Disposition != "" {
		one := 1.0
		facts.Bathrooms = &one
	}
	return facts
}

// fillGaps backfills nil facts from the listing so the checker always has
// the parsed values even when the model omitted them.
func fillGaps(facts *model.StructuredFacts, listing *model.CanonicalListing) {
	if facts.FloorAreaM2 == nil && listing.Details.AreaM2 != nil {
		facts.FloorAreaM2 = listing.Details.AreaM2
	}
	if facts.PriceCZK == nil && listing.Price != nil && listing.Price.Currency == "CZK" {
		facts.PriceCZK = &listing.Price.Amount
	}
	if facts.PricePerM2 == nil {
		switch {
		case listing.Details.PricePerM2 != nil:
			facts.PricePerM2 = listing.Details.PricePerM2
		case facts.PriceCZK != nil && facts.FloorAreaM2 != nil && *facts.FloorAreaM2 > 0:
			perM2 := *facts.PriceCZK / *facts.FloorAreaM2
			facts.PricePerM2 = &perM2
		}
	}
}

func copyEnrichment(facts *model.StructuredFacts, stats *model.DistrictStats) {
	if stats == nil {
		return
	}
	avg := float64(stats.AvgPricePerM2)
	kebab := stats.KebabIndex
	crime := stats.Crime
	facts.AvgDistrictPricePerM2 = &avg
	facts.KebabIndex = &kebab
	facts.Crime = &crime
}

// bedroomsFromDisposition maps an N+kk / N+1 code to a bedroom count: the
// code counts rooms, of which one is the living room for N >= 2.
func bedroomsFromDisposition(disposition string) (int, bool) {
	code, _, ok := strings.Cut(disposition, "+")
	if !ok {
		return 0, false
	}
	rooms, err := strconv.Atoi(code)
	if err != nil || rooms < 1 {
		return 0, false
	}
	if rooms >= 2 {
		return rooms - 1, true
	}
	return 1, true
}

func buildPrompt(listing *model.CanonicalListing, stats *model.DistrictStats) string {
	var b strings.Builder
	b.WriteString("Listing:\n")
	writeListing(&b, listing)
	if stats != nil {
		b.WriteString("\nDistrict statistics:\n")
		if enc, err := json.Marshal(stats); err == nil {
			b.Write(enc)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeListing(b *strings.Builder, listing *model.CanonicalListing) {
	fmt.Fprintf(b, "- Title: %s\n", listing.Title)
	fmt.Fprintf(b, "- Address: %s\n", listing.Address())
	if listing.Price != nil {
		fmt.Fprintf(b, "- Price: %.0f %s (%s)\n", listing.Price.Amount, listing.Price.Currency, listing.PriceType)
	}
	if listing.Details.AreaM2 != nil {
		fmt.Fprintf(b, "- Area: %.1f m2\n", *listing.Details.AreaM2)
	}
	if listing.Details.Disposition != "" {
		fmt.Fprintf(b, "- Disposition: %s\n", listing.Details.Disposition)
	}
	if len(listing.Amenities) > 0 {
		names := make([]string, 0, len(listing.Amenities))
		for _, a := range listing.Amenities {
			names = append(names, a.Name)
		}
		fmt.Fprintf(b, "- Amenities: %s\n", strings.Join(names, ", "))
	}
	description := listing.Description
	if listing.DescriptionEnglish != "" {
		description = listing.DescriptionEnglish
	}
	if description != "" {
		fmt.Fprintf(b, "- Description: %s\n", description)
	}
}
