// Package check compares a listing's free-text description against its
// structured facts and district statistics, and reports the discrepancies.
// All thresholds come from configuration; the checker itself is stateless.
package check

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/KajetanPoliak/proklep/internal/model"
	"github.com/KajetanPoliak/proklep/internal/normalize"
	"github.com/KajetanPoliak/proklep/internal/util"
)

var (
	descAreaRe        = regexp.MustCompile(`(\d+(?:[.,]\d+)?) ?m[²2]`)
	descPriceRe       = regexp.MustCompile(`(\d+(?: \d{3})+) ?Kč`)
	descDispositionRe = regexp.MustCompile(`(?i)\b(\d\+(?:kk|\d))\b`)
)

// Tolerances for numeric description claims. Differences below the
// tolerance are treated as rounding, not inconsistencies.
const (
	areaTolerance  = 0.05
	priceTolerance = 0.01
)

// Checker runs the consistency checks for one listing at a time.
type Checker struct {
	cfg model.CheckConfig
}

// New creates a Checker with the given thresholds and keyword sets.
func New(cfg model.CheckConfig) *Checker {
	return &Checker{cfg: cfg}
}

// Check builds the consistency report for a listing. stats may be nil for
// locations outside the enrichment dataset; the district-backed checks then
// do not apply. facts must not be nil.
func (c *Checker) Check(listing *model.CanonicalListing, stats *model.DistrictStats, facts *model.StructuredFacts) *model.ConsistencyReport {
	description := util.CleanText(strings.TrimSpace(listing.Description + " " + listing.DescriptionEnglish))
	lower := strings.ToLower(description)

	var findings []model.Finding
	findings = append(findings, c.amenityFindings(lower, description, stats, facts)...)
	findings = append(findings, c.safetyFindings(lower, description, stats, facts)...)
	if !facts.Degraded {
		findings = append(findings, c.numericFindings(description, listing, facts)...)
	}

	// Stable sort on severity alone: findings of equal severity keep the
	// order the checks ran in.
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Severity.Rank() < findings[j].Severity.Rank()
	})

	return &model.ConsistencyReport{
		ListingID:            listing.ListingID,
		PropertyAddress:      listing.Address(),
		CheckedAt:            time.Now().UTC(),
		TotalInconsistencies: len(findings),
		IsConsistent:         len(findings) == 0,
		Findings:             findings,
		Summary:              summarize(findings),
	}
}

// amenityFindings flags amenity-praising claims in districts whose kebab
// index sits below the configured threshold. This check runs on every
// listing that has both a claim and a known index.
func (c *Checker) amenityFindings(lower, description string, stats *model.DistrictStats, facts *model.StructuredFacts) []model.Finding {
	keyword := firstKeyword(lower, c.cfg.AmenityKeywords)
	if keyword == "" {
		return nil
	}
	kebab, ok := kebabIndex(stats, facts)
	if !ok || kebab >= c.cfg.AmenityThreshold {
		return nil
	}

	severity := model.SeverityMedium
	if kebab < c.cfg.AmenityThreshold-c.cfg.EscalationMargin {
		severity = model.SeverityCritical
	}
	severity = capDegraded(severity, facts)

	return []model.Finding{{
		FieldName:       "amenities",
		DescriptionSays: snippet(description, keyword),
		ListingDataSays: fmt.Sprintf("district amenity index %.2f (threshold %.2f)", kebab, c.cfg.AmenityThreshold),
		Severity:        severity,
		Explanation: fmt.Sprintf(
			"Description praises local amenities but the district amenity index %.2f is below the %.2f threshold",
			kebab, c.cfg.AmenityThreshold),
	}}
}

// safetyFindings flags calm/safe-location claims in districts with an
// elevated incident rate in any crime category.
func (c *Checker) safetyFindings(lower, description string, stats *model.DistrictStats, facts *model.StructuredFacts) []model.Finding {
	keyword := firstKeyword(lower, c.cfg.SafetyKeywords)
	if keyword == "" {
		return nil
	}
	crime, ok := crimeStats(stats, facts)
	if !ok || crime.Max() <= c.cfg.ElevatedCrimeRate {
		return nil
	}

	severity := model.SeverityMedium
	if crime.Max() > c.cfg.ElevatedCrimeRate+c.cfg.EscalationMargin {
		severity = model.SeverityCritical
	}
	severity = capDegraded(severity, facts)

	return []model.Finding{{
		FieldName:       "safety",
		DescriptionSays: snippet(description, keyword),
		ListingDataSays: fmt.Sprintf("peak district incident rate %.2f (threshold %.2f)", crime.Max(), c.cfg.ElevatedCrimeRate),
		Severity:        severity,
		Explanation: fmt.Sprintf(
			"Description claims a calm or safe location but a district incident rate of %.2f exceeds the %.2f threshold",
			crime.Max(), c.cfg.ElevatedCrimeRate),
	}}
}

// numericFindings cross-checks area, price and disposition claims embedded
// in the description against the structured facts. Skipped entirely on
// degraded facts, where the facts are the listing's own parsed fields and a
// mismatch would only reflect parsing noise.
func (c *Checker) numericFindings(description string, listing *model.CanonicalListing, facts *model.StructuredFacts) []model.Finding {
	var findings []model.Finding

	if facts.FloorAreaM2 != nil && *facts.FloorAreaM2 > 0 {
		if m := descAreaRe.FindStringSubmatch(description); m != nil {
			if claimed, ok := normalize.ParseNumber(m[1]); ok {
				if f, mismatch := numericMismatch("area", m[0], claimed, *facts.FloorAreaM2, areaTolerance, "m²", c.cfg.EscalationMargin); mismatch {
					findings = append(findings, f)
				}
			}
		}
	}

	if facts.PriceCZK != nil && *facts.PriceCZK > 0 {
		if m := descPriceRe.FindStringSubmatch(description); m != nil {
			if claimed, ok := normalize.ParseNumber(m[1]); ok {
				if f, mismatch := numericMismatch("price", m[0], claimed, *facts.PriceCZK, priceTolerance, "Kč", c.cfg.EscalationMargin); mismatch {
					findings = append(findings, f)
				}
			}
		}
	}

	if listing.Details.Disposition != "" {
		if m := descDispositionRe.FindStringSubmatch(description); m != nil {
			claimed := normalize.NormalizeDisposition(m[1])
			if claimed != "" && claimed != listing.Details.Disposition {
				findings = append(findings, model.Finding{
					FieldName:       "disposition",
					DescriptionSays: m[1],
					ListingDataSays: listing.Details.Disposition,
					Severity:        model.SeverityCritical,
					Explanation: fmt.Sprintf(
						"Description mentions disposition %s but the listing data states %s",
						claimed, listing.Details.Disposition),
				})
			}
		}
	}

	return findings
}

func numericMismatch(field, claimedRaw string, claimed, actual, tolerance float64, unit string, escalation float64) (model.Finding, bool) {
	diff := claimed - actual
	if diff < 0 {
		diff = -diff
	}
	ratio := diff / actual
	if ratio <= tolerance {
		return model.Finding{}, false
	}

	severity := model.SeverityMedium
	if ratio > escalation {
		severity = model.SeverityCritical
	}
	return model.Finding{
		FieldName:       field,
		DescriptionSays: claimedRaw,
		ListingDataSays: fmt.Sprintf("%s %s", normalize.FormatNumber(actual), unit),
		Severity:        severity,
		Explanation: fmt.Sprintf(
			"Description states %s %s but the listing data states %s %s",
			normalize.FormatNumber(claimed), unit, normalize.FormatNumber(actual), unit),
	}, true
}

// capDegraded caps finding severity at medium when the facts came from the
// deterministic fallback path.
func capDegraded(severity model.Severity, facts *model.StructuredFacts) model.Severity {
	if facts.Degraded && severity == model.SeverityCritical {
		return model.SeverityMedium
	}
	return severity
}

func kebabIndex(stats *model.DistrictStats, facts *model.StructuredFacts) (float64, bool) {
	if facts.KebabIndex != nil {
		return *facts.KebabIndex, true
	}
	if stats != nil {
		return stats.KebabIndex, true
	}
	return 0, false
}

func crimeStats(stats *model.DistrictStats, facts *model.StructuredFacts) (model.CrimeStats, bool) {
	if facts.Crime != nil {
		return *facts.Crime, true
	}
	if stats != nil {
		return stats.Crime, true
	}
	return model.CrimeStats{}, false
}

func firstKeyword(lower string, keywords []string) string {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return strings.ToLower(kw)
		}
	}
	return ""
}

// snippet extracts a short window of the description around the keyword for
// the description_says field.
func snippet(description, keyword string) string {
	lower := strings.ToLower(description)
	idx := strings.Index(lower, keyword)
	if idx < 0 {
		return keyword
	}
	start := idx - 30
	end := idx + len(keyword) + 30
	for start > 0 && !isBoundary(description[start]) {
		start--
	}
	if start < 0 {
		start = 0
	}
	if end > len(description) {
		end = len(description)
	}
	for end < len(description) && !isBoundary(description[end]) {
		end++
	}
	return strings.TrimSpace(description[start:end])
}

func isBoundary(b byte) bool {
	return b == ' ' || b == '.' || b == ','
}

func summarize(findings []model.Finding) string {
	if len(findings) == 0 {
		return "No inconsistencies found - all description claims match the listing data"
	}
	counts := map[model.Severity]int{}
	for _, f := range findings {
		counts[f.Severity]++
	}
	var parts []string
	for _, sev := range []model.Severity{model.SeverityCritical, model.SeverityMedium, model.SeverityLow} {
		if counts[sev] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[sev], sev))
		}
	}
	return fmt.Sprintf("Found %d inconsistencies (%s)", len(findings), strings.Join(parts, ", "))
}

// MockReport synthesizes a fixed two-finding report without running any
// checks. Used by the mock-inconsistencies test path.
func MockReport(listing *model.CanonicalListing) *model.ConsistencyReport {
	findings := []model.Finding{
		{
			FieldName:       "area",
			DescriptionSays: "prostorný byt o ploše 180 m²",
			ListingDataSays: "Užitná plocha 150 m²",
			Severity:        model.SeverityMedium,
			Explanation:     "Description claims 180 m² but the usable area is 150 m²",
		},
		{
			FieldName:       "price",
			DescriptionSays: "výhodná cena 55 000 Kč/měsíc",
			ListingDataSays: "55 000 Kč/měsíc + poplatky",
			Severity:        model.SeverityLow,
			Explanation:     "Description omits the additional fees, making the price appear lower than the actual cost",
		},
	}
	return &model.ConsistencyReport{
		ListingID:            listing.ListingID,
		PropertyAddress:      listing.Address(),
		CheckedAt:            time.Now().UTC(),
		TotalInconsistencies: len(findings),
		IsConsistent:         false,
		Findings:             findings,
		Summary:              "Found 2 inconsistencies (1 medium, 1 low)",
	}
}
