package normalize

import (
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"8 499 000", 8499000, true},
		{"8 499 000 Kč", 8499000, true},
		{"149 105 Kč / m2", 149105, true},
		{"57", 57, true},
		{"57,5 m²", 57.5, true},
		{"-4,2 %", -4.2, true},
		{"", 0, false},
		{"Kč", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFormatNumberRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 57, 8499000, 149105, 57.5, -4.2, 1234567.25} {
		formatted := FormatNumber(v)
		parsed, ok := ParseNumber(formatted)
		if !ok {
			t.Errorf("FormatNumber(%v) = %q did not parse back", v, formatted)
			continue
		}
		if parsed != v {
			t.Errorf("round trip %v -> %q -> %v", v, formatted, parsed)
		}
	}

	if got := FormatNumber(8499000); got != "8 499 000" {
		t.Errorf("FormatNumber(8499000) = %q, want %q", got, "8 499 000")
	}
}

func TestParsePrice(t *testing.T) {
	price, ok := ParsePrice("8 499 000 Kč")
	if !ok {
		t.Fatal("expected price to parse")
	}
	if price.Amount != 8499000 {
		t.Errorf("amount = %v, want 8499000", price.Amount)
	}
	if price.Currency != "CZK" {
		t.Errorf("currency = %q, want CZK", price.Currency)
	}
	if price.Raw != "8 499 000 Kč" {
		t.Errorf("raw = %q", price.Raw)
	}

	if eur, ok := ParsePrice("320 000 €"); !ok || eur.Currency != "EUR" {
		t.Errorf("expected EUR price, got %+v ok=%v", eur, ok)
	}

	for _, bad := range []string{"", "zdarma", "0 Kč", "-5 000 Kč"} {
		if _, ok := ParsePrice(bad); ok {
			t.Errorf("ParsePrice(%q) unexpectedly parsed", bad)
		}
	}
}

func TestParseArea(t *testing.T) {
	area, ok := ParseArea("57 m²")
	if !ok || *area != 57 {
		t.Fatalf("ParseArea(57 m²) = %v ok=%v", area, ok)
	}
	if area, ok := ParseArea("57,5 m2"); !ok || *area != 57.5 {
		t.Errorf("ParseArea(57,5 m2) = %v ok=%v", area, ok)
	}
	if _, ok := ParseArea("bez plochy"); ok {
		t.Error("expected parse failure for non-numeric area")
	}
}

func TestParseFloor(t *testing.T) {
	tests := []struct {
		input string
		floor *int
		total *int
	}{
		{"2. podlaží z 5", intp(2), intp(5)},
		{"2. podlaží", intp(2), nil},
		{"2/5", intp(2), intp(5)},
		{"3 ze 8", intp(3), intp(8)},
		{"přízemí", nil, nil},
	}

	for _, tt := range tests {
		floor, total := ParseFloor(tt.input)
		if !eqIntp(floor, tt.floor) || !eqIntp(total, tt.total) {
			t.Errorf("ParseFloor(%q) = %v/%v, want %v/%v",
				tt.input, fmtIntp(floor), fmtIntp(total), fmtIntp(tt.floor), fmtIntp(tt.total))
		}
	}
}

func intp(v int) *int { return &v }

func eqIntp(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtIntp(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
