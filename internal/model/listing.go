package model

import "time"

// Confidence records which kind of extraction path resolved a field slot
type Confidence string

const (
	ConfidenceGuaranteed Confidence = "guaranteed"  // Primary strategy succeeded
	ConfidenceBestEffort Confidence = "best_effort" // Lower-ranked strategy or derivation
	ConfidenceMissing    Confidence = "missing"     // Every strategy and derivation failed
)

// Field slot names shared between the extractor and the normalizer
const (
	FieldTitle              = "title"
	FieldPropertyID         = "property_id"
	FieldPrice              = "price"
	FieldPricePerM2         = "price_per_m2"
	FieldCategory           = "category"
	FieldDescription        = "description"
	FieldDescriptionEnglish = "description_english"
	FieldLocationFull       = "location_full"
	FieldCity               = "city"
	FieldDistrict           = "district"
	FieldStreet             = "street"
	FieldArea               = "area"
	FieldDisposition        = "disposition"
	FieldFloor              = "floor"
	FieldBuildingType       = "building_type"
	FieldCondition          = "condition"
	FieldOwnership          = "ownership"
	FieldFurnished          = "furnished"
	FieldEnergyRating       = "energy_rating"
	FieldAvailableFrom      = "available_from"
	FieldSellerType         = "seller_type"
	FieldSellerName         = "seller_name"
	FieldSellerPhone        = "seller_phone"
	FieldSellerEmail        = "seller_email"
	FieldSellerNote         = "seller_note"
)

// CriticalFields must be resolved whenever any strategy or derivation can
// succeed. A missing critical field marks the extraction as partial.
var CriticalFields = []string{FieldCity, FieldDistrict, FieldStreet, FieldArea, FieldDisposition}

// FieldSlot holds one extracted raw value together with its provenance
type FieldSlot struct {
	Value        string     `json:"value,omitempty"`
	StrategyRank int        `json:"strategy_rank"` // Index of the strategy that produced the value
	Confidence   Confidence `json:"confidence"`
}

// RawExtraction is the per-page output of a source extractor. It is consumed
// by the normalizer and discarded afterwards.
type RawExtraction struct {
	URL         string               `json:"url"`
	Source      string               `json:"source"`
	Slots       map[string]FieldSlot `json:"slots"`
	Attributes  map[string]string    `json:"attributes,omitempty"` // Raw key/value pairs from the parameter table
	Breadcrumbs []string             `json:"breadcrumbs,omitempty"`
	Features    []string             `json:"features,omitempty"`
	Amenities   []string             `json:"amenities,omitempty"` // Unsplit amenity phrases
	Images      []string             `json:"images,omitempty"`
}

// Slot returns the value of a slot, or "" when the slot is absent or missing.
func (r *RawExtraction) Slot(field string) string {
	if s, ok := r.Slots[field]; ok && s.Confidence != ConfidenceMissing {
		return s.Value
	}
	return ""
}

// MissingCritical lists the critical fields that resolved to missing.
func (r *RawExtraction) MissingCritical() []string {
	var missing []string
	for _, field := range CriticalFields {
		if s, ok := r.Slots[field]; !ok || s.Confidence == ConfidenceMissing {
			missing = append(missing, field)
		}
	}
	return missing
}

// PriceType classifies a listing as a sale or a rental
type PriceType string

const (
	PriceTypeSale   PriceType = "sale"
	PriceTypeRental PriceType = "rental"
)

// SellerType distinguishes direct owners from agents
type SellerType string

const (
	SellerOwner SellerType = "owner"
	SellerAgent SellerType = "agent"
)

// Money is a parsed locale-formatted amount. Amount is always a fully parsed
// number; Raw preserves the original string for traceability.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Raw      string  `json:"raw,omitempty"`
}

// Location is the hierarchical location block of a listing
type Location struct {
	Full          string `json:"full,omitempty"`
	City          string `json:"city,omitempty"`
	District      string `json:"district,omitempty"`
	Street        string `json:"street,omitempty"`
	AdminDistrict string `json:"adminDistrict,omitempty"` // e.g. "Praha 10", derived for Prague only
}

// PropertyDetails holds the structured parameter table of a listing
type PropertyDetails struct {
	PropertyID    string   `json:"propertyId,omitempty"`
	AreaM2        *float64 `json:"area,omitempty"`
	Disposition   string   `json:"disposition,omitempty"` // Validated N+kk / N+1 code
	Floor         *int     `json:"floor,omitempty"`
	TotalFloors   *int     `json:"totalFloors,omitempty"`
	BuildingType  string   `json:"buildingType,omitempty"`
	Condition     string   `json:"condition,omitempty"`
	Ownership     string   `json:"ownership,omitempty"`
	Furnished     string   `json:"furnished,omitempty"`
	EnergyRating  string   `json:"energyRating,omitempty"`
	AvailableFrom string   `json:"availableFrom,omitempty"`
	PricePerM2    *float64 `json:"pricePerM2,omitempty"`
}

// Amenity is one deduplicated amenity entry with an optional parsed size
type Amenity struct {
	Name   string   `json:"name"`
	SizeM2 *float64 `json:"sizeM2,omitempty"`
}

// Seller describes who is offering the listing
type Seller struct {
	Type  SellerType `json:"type,omitempty"`
	Name  string     `json:"name,omitempty"`
	Phone string     `json:"phone,omitempty"`
	Email string     `json:"email,omitempty"`
	Note  string     `json:"note,omitempty"`
}

// CanonicalListing is the normalized, immutable per-listing record. Numeric
// fields are either fully parsed or nil, never partially-parsed strings.
// Field names and nesting match the documented output schema.
type CanonicalListing struct {
	ListingID          string            `json:"listingId"`
	URL                string            `json:"url"`
	Source             string            `json:"source,omitempty"`
	Title              string            `json:"title,omitempty"`
	Category           string            `json:"category,omitempty"`
	PriceType          PriceType         `json:"priceType,omitempty"`
	Price              *Money            `json:"price,omitempty"`
	Location           Location          `json:"location"`
	Details            PropertyDetails   `json:"propertyDetails"`
	Amenities          []Amenity         `json:"amenities,omitempty"`
	Features           []string          `json:"features,omitempty"`
	Images             []string          `json:"images,omitempty"`
	Seller             Seller            `json:"seller"`
	Breadcrumbs        []string          `json:"breadcrumbs,omitempty"`
	Description        string            `json:"description,omitempty"`
	DescriptionEnglish string            `json:"descriptionEnglish,omitempty"`
	Attributes         map[string]string `json:"attributes,omitempty"` // Lossless raw-attribute fallback
	MissingCritical    []string          `json:"missingCriticalFields,omitempty"`
	ScrapedAt          time.Time         `json:"scrapedAt"`
}

// Address returns the best human-readable address for the listing.
func (l *CanonicalListing) Address() string {
	if l.Location.Full != "" {
		return l.Location.Full
	}
	if l.Title != "" {
		return l.Title
	}
	return l.URL
}
