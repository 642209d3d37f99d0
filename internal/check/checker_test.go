package check

import (
	"strings"
	"testing"

	"github.com/KajetanPoliak/proklep/internal/model"
)

func testListing(description string) *model.CanonicalListing {
	area := 57.0
	return &model.CanonicalListing{
		ListingID: "912345",
		Title:     "Prodej bytu 3+kk 57 m², Úvalská, Praha - Strašnice",
		Location: model.Location{
			Full:          "Praha - Strašnice",
			City:          "Praha",
			District:      "Strašnice",
			AdminDistrict: "Praha 10",
		},
		Price:       &model.Money{Amount: 8499000, Currency: "CZK"},
		Details:     model.PropertyDetails{AreaM2: &area, Disposition: "3+kk"},
		Description: description,
	}
}

func strasniceStats() *model.DistrictStats {
	return &model.DistrictStats{
		District:      "Strašnice",
		AdminDistrict: "Praha 10",
		AvgPricePerM2: 127800,
		PriceTier:     model.TierMedium,
		KebabIndex:    0.40,
		Crime:         model.CrimeStats{Violent: 0.38, Burglary: 0.52, Fire: 0.45},
	}
}

func factsFor(listing *model.CanonicalListing, stats *model.DistrictStats, degraded bool) *model.StructuredFacts {
	facts := &model.StructuredFacts{
		ListingID:   listing.ListingID,
		FloorAreaM2: listing.Details.AreaM2,
		Degraded:    degraded,
	}
	if listing.Price != nil {
		facts.PriceCZK = &listing.Price.Amount
	}
	if stats != nil {
		avg := float64(stats.AvgPricePerM2)
		kebab := stats.KebabIndex
		crime := stats.Crime
		facts.AvgDistrictPricePerM2 = &avg
		facts.KebabIndex = &kebab
		facts.Crime = &crime
	}
	return facts
}

func newChecker() *Checker {
	return New(model.DefaultConfig().Checks)
}

// The amenity-claim scenario: a Strašnice listing praising civic amenities
// while the district index sits below the threshold yields exactly one
// medium finding.
func TestCheckAmenityClaim(t *testing.T) {
	listing := testListing("Apartment in Strašnice, all civic amenities nearby, disposition 3+kk, 57 m²")
	stats := strasniceStats()
	facts := factsFor(listing, stats, false)

	report := newChecker().Check(listing, stats, facts)

	if report.IsConsistent {
		t.Fatal("expected an inconsistent report")
	}
	if report.TotalInconsistencies != 1 {
		t.Fatalf("total = %d, findings %+v", report.TotalInconsistencies, report.Findings)
	}
	finding := report.Findings[0]
	if finding.FieldName != "amenities" {
		t.Errorf("field = %q, want amenities", finding.FieldName)
	}
	if finding.Severity != model.SeverityMedium {
		t.Errorf("severity = %q, want medium", finding.Severity)
	}
	if !strings.Contains(finding.DescriptionSays, "amenities") {
		t.Errorf("description snippet = %q", finding.DescriptionSays)
	}
	if report.ListingID != "912345" || report.PropertyAddress == "" {
		t.Errorf("report header = %+v", report)
	}
}

func TestCheckAmenityClaimEscalates(t *testing.T) {
	listing := testListing("Veškerá občanská vybavenost v okolí.")
	stats := strasniceStats()
	stats.KebabIndex = 0.10 // More than the escalation margin below the threshold
	facts := factsFor(listing, stats, false)

	report := newChecker().Check(listing, stats, facts)

	if len(report.Findings) != 1 || report.Findings[0].Severity != model.SeverityCritical {
		t.Errorf("findings = %+v, want one critical", report.Findings)
	}
}

func TestCheckSafetyClaim(t *testing.T) {
	listing := testListing("Klidná a bezpečná lokalita v centru.")
	stats := strasniceStats()
	stats.Crime = model.CrimeStats{Violent: 1.0, Burglary: 0.9, Fire: 0.7}
	facts := factsFor(listing, stats, false)

	report := newChecker().Check(listing, stats, facts)

	if len(report.Findings) != 1 {
		t.Fatalf("findings = %+v, want one", report.Findings)
	}
	finding := report.Findings[0]
	if finding.FieldName != "safety" {
		t.Errorf("field = %q, want safety", finding.FieldName)
	}
	// Violent 1.0 exceeds 0.60 by more than the 0.25 margin
	if finding.Severity != model.SeverityCritical {
		t.Errorf("severity = %q, want critical", finding.Severity)
	}
}

func TestCheckSafetyClaimBelowThreshold(t *testing.T) {
	// Strašnice incident rates peak at 0.52, under the 0.60 threshold: the
	// calm-location claim stands.
	listing := testListing("Klidná lokalita, vše v dosahu.")
	stats := strasniceStats()
	facts := factsFor(listing, stats, false)

	report := newChecker().Check(listing, stats, facts)

	if !report.IsConsistent {
		t.Errorf("expected consistent report, got %+v", report.Findings)
	}
}

func TestCheckNoKeywords(t *testing.T) {
	listing := testListing("Byt po rekonstrukci, nová kuchyňská linka.")
	stats := strasniceStats()
	facts := factsFor(listing, stats, false)

	report := newChecker().Check(listing, stats, facts)

	if !report.IsConsistent || report.TotalInconsistencies != 0 {
		t.Errorf("expected clean report, got %+v", report.Findings)
	}
	if report.Summary == "" {
		t.Error("expected a summary even for clean reports")
	}
}

func TestCheckDegradedCapsSeverity(t *testing.T) {
	listing := testListing("Veškerá občanská vybavenost v okolí.")
	stats := strasniceStats()
	stats.KebabIndex = 0.10
	facts := factsFor(listing, stats, true)

	report := newChecker().Check(listing, stats, facts)

	if len(report.Findings) != 1 {
		t.Fatalf("findings = %+v", report.Findings)
	}
	if report.Findings[0].Severity != model.SeverityMedium {
		t.Errorf("severity = %q, want medium cap on degraded facts", report.Findings[0].Severity)
	}
}

func TestCheckNumericMismatch(t *testing.T) {
	listing := testListing("Prostorný byt o ploše 80 m² za 9 000 000 Kč.")
	facts := factsFor(listing, nil, false)

	report := newChecker().Check(listing, nil, facts)

	byField := map[string]model.Finding{}
	for _, f := range report.Findings {
		byField[f.FieldName] = f
	}

	area, ok := byField["area"]
	if !ok {
		t.Fatalf("no area finding in %+v", report.Findings)
	}
	// 80 vs 57 is more than 25% off
	if area.Severity != model.SeverityCritical {
		t.Errorf("area severity = %q, want critical", area.Severity)
	}

	price, ok := byField["price"]
	if !ok {
		t.Fatalf("no price finding in %+v", report.Findings)
	}
	if price.Severity != model.SeverityMedium {
		t.Errorf("price severity = %q, want medium", price.Severity)
	}
}

func TestCheckNumericSkippedWhenDegraded(t *testing.T) {
	listing := testListing("Prostorný byt o ploše 80 m² za 9 000 000 Kč.")
	facts := factsFor(listing, nil, true)

	report := newChecker().Check(listing, nil, facts)

	if !report.IsConsistent {
		t.Errorf("numeric checks must not run on degraded facts, got %+v", report.Findings)
	}
}

func TestCheckDispositionMismatch(t *testing.T) {
	listing := testListing("Krásný byt 2+1 v centru Prahy, plocha 57 m².")
	facts := factsFor(listing, nil, false)

	report := newChecker().Check(listing, nil, facts)

	found := false
	for _, f := range report.Findings {
		if f.FieldName == "disposition" {
			found = true
			if f.Severity != model.SeverityCritical {
				t.Errorf("disposition severity = %q", f.Severity)
			}
		}
	}
	if !found {
		t.Errorf("no disposition finding in %+v", report.Findings)
	}
}

func TestCheckFindingOrder(t *testing.T) {
	// Amenity claim (medium) plus disposition mismatch (critical): critical
	// sorts first.
	listing := testListing("Byt 2+1, veškerá občanská vybavenost, plocha 57 m².")
	stats := strasniceStats()
	facts := factsFor(listing, stats, false)

	report := newChecker().Check(listing, stats, facts)

	if len(report.Findings) < 2 {
		t.Fatalf("findings = %+v", report.Findings)
	}
	for i := 1; i < len(report.Findings); i++ {
		if report.Findings[i-1].Severity.Rank() > report.Findings[i].Severity.Rank() {
			t.Errorf("findings out of order: %+v", report.Findings)
		}
	}
	if report.Findings[0].FieldName != "disposition" {
		t.Errorf("first finding = %+v, want the critical disposition mismatch", report.Findings[0])
	}
}

// Equal-severity findings keep the order the checks ran in: the mandatory
// safety check comes before the opportunistic price comparison even though
// "price" sorts before "safety" alphabetically.
func TestCheckEqualSeverityKeepsCheckOrder(t *testing.T) {
	listing := testListing("Klidná lokalita, cena 8 600 000 Kč.")
	stats := strasniceStats()
	stats.Crime = model.CrimeStats{Violent: 0.70, Burglary: 0.40, Fire: 0.30}
	facts := factsFor(listing, stats, false)

	report := newChecker().Check(listing, stats, facts)

	if len(report.Findings) != 2 {
		t.Fatalf("findings = %+v, want safety and price", report.Findings)
	}
	for _, f := range report.Findings {
		// Violent 0.70 and a 1.2% price gap both land in the medium band
		if f.Severity != model.SeverityMedium {
			t.Fatalf("severity = %q, want medium for both: %+v", f.Severity, report.Findings)
		}
	}
	if report.Findings[0].FieldName != "safety" || report.Findings[1].FieldName != "price" {
		t.Errorf("order = [%s, %s], want [safety, price]",
			report.Findings[0].FieldName, report.Findings[1].FieldName)
	}
}

func TestMockReport(t *testing.T) {
	listing := testListing("whatever")

	report := MockReport(listing)

	if report.IsConsistent || report.TotalInconsistencies != 2 {
		t.Errorf("mock report = %+v", report)
	}
	if report.Findings[0].Severity != model.SeverityMedium || report.Findings[1].Severity != model.SeverityLow {
		t.Errorf("mock severities = %+v", report.Findings)
	}
	if report.ListingID != listing.ListingID {
		t.Errorf("mock listing id = %q", report.ListingID)
	}
}
