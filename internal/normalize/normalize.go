// Package normalize converts per-source raw extractions into the canonical
// listing schema. Normalization degrades gracefully per field: anything that
// fails to parse is carried through as absent, never as a partial value.
package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/KajetanPoliak/proklep/internal/model"
	"github.com/KajetanPoliak/proklep/internal/util"
)

// ErrNoIdentity marks the one non-recoverable condition: a record with no
// property id and no usable URL is not a listing at all.
var ErrNoIdentity = errors.New("listing has no identity")

var (
	dispositionValidRe = regexp.MustCompile(`^\d\+(?:kk|\d)$`)
	amenitySizeRe      = regexp.MustCompile(`^(.*?) (\d+(?:,\d+)?) ?m²?2?$`)
)

const maxBreadcrumbs = 10

// Normalizer maps raw extractions onto CanonicalListing. The zone function
// derives the administrative zone for the one mapped metropolitan area and
// is injected from the enrichment table.
type Normalizer struct {
	zone func(city, district string) (string, bool)
}

// New creates a Normalizer. zone may be nil when no zone mapping is wanted.
func New(zone func(city, district string) (string, bool)) *Normalizer {
	return &Normalizer{zone: zone}
}

// Normalize converts one raw extraction into an immutable canonical listing.
// It fails only on missing identity; every other defect degrades to an
// absent field.
func (n *Normalizer) Normalize(raw *model.RawExtraction) (*model.CanonicalListing, error) {
	propertyID := raw.Slot(model.FieldPropertyID)
	if propertyID == "" && raw.URL == "" {
		return nil, fmt.Errorf("normalize %q: %w", raw.Slot(model.FieldTitle), ErrNoIdentity)
	}

	listingID := propertyID
	if listingID == "" {
		listingID = util.ListingIDFromURL(raw.URL)
	}

	listing := &model.CanonicalListing{
		ListingID:          listingID,
		URL:                raw.URL,
		Source:             raw.Source,
		Title:              raw.Slot(model.FieldTitle),
		Category:           raw.Slot(model.FieldCategory),
		PriceType:          priceType(raw),
		Description:        raw.Slot(model.FieldDescription),
		DescriptionEnglish: raw.Slot(model.FieldDescriptionEnglish),
		Attributes:         raw.Attributes,
		Breadcrumbs:        trimBreadcrumbs(raw.Breadcrumbs),
		Features:           dedupe(raw.Features),
		Images:             dedupe(raw.Images),
		Amenities:          normalizeAmenities(raw.Amenities),
		MissingCritical:    raw.MissingCritical(),
		ScrapedAt:          time.Now().UTC(),
	}

	if price, ok := ParsePrice(raw.Slot(model.FieldPrice)); ok {
		listing.Price = price
	}

	listing.Location = n.location(raw)
	listing.Details = details(propertyID, raw)
	listing.Seller = seller(raw)

	return listing, nil
}

func priceType(raw *model.RawExtraction) model.PriceType {
	category := strings.ToLower(raw.Slot(model.FieldCategory))
	if strings.Contains(category, "pronájem") || strings.Contains(category, "rental") {
		return model.PriceTypeRental
	}
	return model.PriceTypeSale
}

func (n *Normalizer) location(raw *model.RawExtraction) model.Location {
	loc := model.Location{
		Full:     raw.Slot(model.FieldLocationFull),
		City:     raw.Slot(model.FieldCity),
		District: raw.Slot(model.FieldDistrict),
		Street:   raw.Slot(model.FieldStreet),
	}

	if loc.Full == "" {
		switch {
		case loc.City != "" && loc.District != "":
			loc.Full = loc.City + " - " + loc.District
		case loc.City != "":
			loc.Full = loc.City
		}
	}

	if n.zone != nil {
		if zone, ok := n.zone(loc.City, loc.District); ok {
			loc.AdminDistrict = zone
		}
	}
	return loc
}

func details(propertyID string, raw *model.RawExtraction) model.PropertyDetails {
	d := model.PropertyDetails{
		PropertyID:    propertyID,
		Disposition:   NormalizeDisposition(raw.Slot(model.FieldDisposition)),
		BuildingType:  raw.Slot(model.FieldBuildingType),
		Condition:     raw.Slot(model.FieldCondition),
		Ownership:     raw.Slot(model.FieldOwnership),
		Furnished:     raw.Slot(model.FieldFurnished),
		EnergyRating:  raw.Slot(model.FieldEnergyRating),
		AvailableFrom: raw.Slot(model.FieldAvailableFrom),
	}

	if area, ok := ParseArea(raw.Slot(model.FieldArea)); ok {
		d.AreaM2 = area
	}
	if perM2, ok := ParseNumber(raw.Slot(model.FieldPricePerM2)); ok && perM2 > 0 {
		d.PricePerM2 = &perM2
	}
	d.Floor, d.TotalFloors = ParseFloor(raw.Slot(model.FieldFloor))
	return d
}

func seller(raw *model.RawExtraction) model.Seller {
	s := model.Seller{
		Name:  raw.Slot(model.FieldSellerName),
		Phone: raw.Slot(model.FieldSellerPhone),
		Email: raw.Slot(model.FieldSellerEmail),
		Note:  raw.Slot(model.FieldSellerNote),
	}
	switch raw.Slot(model.FieldSellerType) {
	case "owner":
		s.Type = model.SellerOwner
	case "agent":
		s.Type = model.SellerAgent
	}
	return s
}

// NormalizeDisposition validates a disposition code against the known
// pattern set. Unrecognized codes come back empty rather than half-parsed.
func NormalizeDisposition(s string) string {
	d := strings.ToLower(strings.ReplaceAll(util.CleanText(s), " ", ""))
	if d == "" {
		return ""
	}
	if d == "garsoniéra" || d == "garsonka" {
		return "1+kk"
	}
	if dispositionValidRe.MatchString(d) {
		return d
	}
	return ""
}

// normalizeAmenities splits raw amenity phrases into independent entries,
// parses embedded sizes and deduplicates case- and whitespace-insensitively.
func normalizeAmenities(rawEntries []string) []model.Amenity {
	var amenities []model.Amenity
	seen := make(map[string]bool)

	for _, entry := range rawEntries {
		for _, part := range splitAmenity(entry) {
			name := util.CleanText(part)
			if name == "" {
				continue
			}

			var size *float64
			if m := amenitySizeRe.FindStringSubmatch(name); m != nil {
				if v, ok := ParseNumber(m[2]); ok && v > 0 {
					name = util.CleanText(m[1])
					size = &v
				}
			}

			key := strings.ToLower(name)
			if name == "" || seen[key] {
				continue
			}
			seen[key] = true
			amenities = append(amenities, model.Amenity{Name: name, SizeM2: size})
		}
	}
	return amenities
}

func splitAmenity(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '•' || r == ';'
	})
}

func trimBreadcrumbs(crumbs []string) []string {
	out := dedupe(crumbs)
	if len(out) > maxBreadcrumbs {
		out = out[:maxBreadcrumbs]
	}
	return out
}

func dedupe(items []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, item := range items {
		cleaned := util.CleanText(item)
		key := strings.ToLower(cleaned)
		if cleaned == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, cleaned)
	}
	return out
}
