package normalize

import (
	"errors"
	"strings"
	"testing"

	"github.com/KajetanPoliak/proklep/internal/model"
)

func slot(value string) model.FieldSlot {
	return model.FieldSlot{Value: value, Confidence: model.ConfidenceGuaranteed}
}

func rawListing() *model.RawExtraction {
	return &model.RawExtraction{
		URL:    "https://www.bezrealitky.cz/nemovitosti-byty-domy/12345-nabidka-prodej-bytu",
		Source: "bezrealitky",
		Slots: map[string]model.FieldSlot{
			model.FieldTitle:       slot("Prodej bytu 3+kk 57 m², Úvalská, Praha 10 - Strašnice"),
			model.FieldPropertyID:  slot("12345"),
			model.FieldPrice:       slot("8 499 000 Kč"),
			model.FieldPricePerM2:  slot("149 105 Kč / m2"),
			model.FieldCategory:    slot("Prodej"),
			model.FieldCity:        slot("Praha"),
			model.FieldDistrict:    slot("Strašnice"),
			model.FieldStreet:      slot("Úvalská"),
			model.FieldArea:        slot("57 m²"),
			model.FieldDisposition: slot("3+kk"),
			model.FieldFloor:       slot("2. podlaží z 5"),
			model.FieldSellerType:  slot("owner"),
		},
		Amenities: []string{"Sklep 4 m²", "Lodžie 5 m², Sklep 4 m²"},
	}
}

func pragueZone(city, district string) (string, bool) {
	if strings.EqualFold(district, "Strašnice") {
		return "Praha 10", true
	}
	return "", false
}

func TestNormalize(t *testing.T) {
	n := New(pragueZone)

	listing, err := n.Normalize(rawListing())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if listing.ListingID != "12345" {
		t.Errorf("listing id = %q, want property id", listing.ListingID)
	}
	if listing.PriceType != model.PriceTypeSale {
		t.Errorf("price type = %q, want sale", listing.PriceType)
	}
	if listing.Price == nil || listing.Price.Amount != 8499000 || listing.Price.Currency != "CZK" {
		t.Errorf("price = %+v", listing.Price)
	}
	if listing.Details.AreaM2 == nil || *listing.Details.AreaM2 != 57 {
		t.Errorf("area = %v", listing.Details.AreaM2)
	}
	if listing.Details.PricePerM2 == nil || *listing.Details.PricePerM2 != 149105 {
		t.Errorf("price per m2 = %v", listing.Details.PricePerM2)
	}
	if listing.Details.Disposition != "3+kk" {
		t.Errorf("disposition = %q", listing.Details.Disposition)
	}
	if listing.Details.Floor == nil || *listing.Details.Floor != 2 {
		t.Errorf("floor = %v", listing.Details.Floor)
	}
	if listing.Details.TotalFloors == nil || *listing.Details.TotalFloors != 5 {
		t.Errorf("total floors = %v", listing.Details.TotalFloors)
	}
	if listing.Location.AdminDistrict != "Praha 10" {
		t.Errorf("admin district = %q", listing.Location.AdminDistrict)
	}
	if listing.Location.Full != "Praha - Strašnice" {
		t.Errorf("location full = %q", listing.Location.Full)
	}
	if listing.Seller.Type != model.SellerOwner {
		t.Errorf("seller type = %q", listing.Seller.Type)
	}
	if listing.ScrapedAt.IsZero() {
		t.Error("scraped at not set")
	}
	if len(listing.MissingCritical) != 0 {
		t.Errorf("unexpected missing critical fields: %v", listing.MissingCritical)
	}
}

func TestNormalizeAmenities(t *testing.T) {
	n := New(nil)

	listing, err := n.Normalize(rawListing())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	// "Sklep 4 m²" appears twice across the raw entries and must come out
	// once, with its size parsed.
	if len(listing.Amenities) != 2 {
		t.Fatalf("amenities = %+v, want 2 entries", listing.Amenities)
	}
	byName := map[string]model.Amenity{}
	for _, a := range listing.Amenities {
		byName[a.Name] = a
	}
	sklep, ok := byName["Sklep"]
	if !ok || sklep.SizeM2 == nil || *sklep.SizeM2 != 4 {
		t.Errorf("sklep = %+v ok=%v", sklep, ok)
	}
	lodzie, ok := byName["Lodžie"]
	if !ok || lodzie.SizeM2 == nil || *lodzie.SizeM2 != 5 {
		t.Errorf("lodžie = %+v ok=%v", lodzie, ok)
	}
}

func TestNormalizeIdentity(t *testing.T) {
	n := New(nil)

	// No property id: fall back to the URL-derived id
	raw := rawListing()
	delete(raw.Slots, model.FieldPropertyID)
	listing, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !strings.HasPrefix(listing.ListingID, "PRG-") {
		t.Errorf("expected URL-derived id, got %q", listing.ListingID)
	}

	// Neither property id nor URL: hard failure
	raw = rawListing()
	delete(raw.Slots, model.FieldPropertyID)
	raw.URL = ""
	if _, err := n.Normalize(raw); !errors.Is(err, ErrNoIdentity) {
		t.Errorf("expected ErrNoIdentity, got %v", err)
	}
}

func TestNormalizeRentalCategory(t *testing.T) {
	n := New(nil)

	raw := rawListing()
	raw.Slots[model.FieldCategory] = slot("Pronájem bytu")
	listing, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if listing.PriceType != model.PriceTypeRental {
		t.Errorf("price type = %q, want rental", listing.PriceType)
	}
}

func TestNormalizeDisposition(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"3+kk", "3+kk"},
		{"3+KK", "3+kk"},
		{"4+1", "4+1"},
		{"3 + kk", "3+kk"},
		{"garsoniéra", "1+kk"},
		{"atypický", ""},
		{"", ""},
		{"12+kk", ""},
	}

	for _, tt := range tests {
		if got := NormalizeDisposition(tt.input); got != tt.want {
			t.Errorf("NormalizeDisposition(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeMissingCritical(t *testing.T) {
	n := New(nil)

	raw := rawListing()
	raw.Slots[model.FieldStreet] = model.FieldSlot{Confidence: model.ConfidenceMissing}
	delete(raw.Slots, model.FieldArea)
	listing, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(listing.MissingCritical) != 2 {
		t.Errorf("missing critical = %v, want street and area", listing.MissingCritical)
	}
}
