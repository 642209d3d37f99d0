package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/KajetanPoliak/proklep/internal/model"
	"github.com/KajetanPoliak/proklep/internal/util"
)

// Czech convention: space-grouped thousands, comma decimals, unit suffix.
// Inputs are cleaned first so non-breaking and zero-width spaces collapse to
// plain spaces before matching.
var czNumberRe = regexp.MustCompile(`-?\d+(?: \d{3})*(?:,\d+)?`)

// ParseNumber parses a locale-formatted numeric string, ignoring any
// currency or unit suffix. Returns false when no number is present.
func ParseNumber(s string) (float64, bool) {
	m := czNumberRe.FindString(util.CleanText(s))
	if m == "" {
		return 0, false
	}
	compact := strings.ReplaceAll(m, " ", "")
	compact = strings.ReplaceAll(compact, ",", ".")
	v, err := strconv.ParseFloat(compact, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatNumber renders a value back in the same locale convention, which
// makes parsing round-trip-consistent for integral amounts.
func FormatNumber(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, " ")
	if fracPart != "" {
		out += "," + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// ParsePrice parses a locale-formatted price like "8 499 000 Kč" or
// "55 000 Kč/měsíc". Currency defaults to CZK when only the Kč suffix (or
// nothing) is present.
func ParsePrice(s string) (*model.Money, bool) {
	cleaned := util.CleanText(s)
	amount, ok := ParseNumber(cleaned)
	if !ok || amount <= 0 {
		return nil, false
	}

	currency := "CZK"
	switch {
	case strings.Contains(cleaned, "€") || strings.Contains(cleaned, "EUR"):
		currency = "EUR"
	case strings.Contains(cleaned, "$") || strings.Contains(cleaned, "USD"):
		currency = "USD"
	}

	return &model.Money{Amount: amount, Currency: currency, Raw: cleaned}, true
}

// ParseArea parses an area like "57 m²" or "57,5 m2" into square meters.
func ParseArea(s string) (*float64, bool) {
	v, ok := ParseNumber(s)
	if !ok || v <= 0 {
		return nil, false
	}
	return &v, true
}

// Floor strings read "2. podlaží z 5", "2. podlaží" or "2/5".
var floorRe = regexp.MustCompile(`(-?\d+)(?:\. podlaží)?(?: ?(?:z|ze|/) ?(\d+))?`)

// ParseFloor parses a floor-of-total string. Either part may be absent.
func ParseFloor(s string) (floor, total *int) {
	m := floorRe.FindStringSubmatch(util.CleanText(s))
	if m == nil {
		return nil, nil
	}
	if v, err := strconv.Atoi(m[1]); err == nil {
		floor = &v
	}
	if m[2] != "" {
		if v, err := strconv.Atoi(m[2]); err == nil {
			total = &v
		}
	}
	return floor, total
}
