package sources

import (
	"regexp"
	"strings"

	"github.com/KajetanPoliak/proklep/internal/extract"
	"github.com/KajetanPoliak/proklep/internal/model"
)

// bezrealitky extracts Bezrealitky.cz listing pages. The site serves a
// parameter table plus a title that reliably encodes disposition, area and
// location, which makes the title the workhorse derivation source.
type bezrealitky struct {
	urlIDRe *regexp.Regexp
}

func newBezrealitky() *bezrealitky {
	return &bezrealitky{
		urlIDRe: regexp.MustCompile(`/(\d+)-`),
	}
}

func (s *bezrealitky) Name() string { return "bezrealitky" }

func (s *bezrealitky) CanHandle(host string) bool {
	return strings.Contains(host, "bezrealitky.cz")
}

func (s *bezrealitky) Extract(doc *extract.Document) *model.RawExtraction {
	attrs := tableAttributes(doc)

	ex := extract.NewFieldExtractor([]extract.Chain{
		{Field: model.FieldTitle, Strategies: []extract.Strategy{
			extract.Selector("h1"),
			extract.Selector("[class*=PropertyTitle]"),
		}},
		{Field: model.FieldPropertyID, Strategies: []extract.Strategy{
			s.idFromURL,
			extract.FromAttrs(attrs, "Číslo inzerátu"),
		}},
		{Field: model.FieldPrice, Strategies: []extract.Strategy{
			extract.Selector("[class*=PropertyPrice] strong"),
			extract.TextRegex(priceRe, 1),
		}},
		{Field: model.FieldPricePerM2, Strategies: []extract.Strategy{
			extract.TextRegex(pricePerM2Re, 1),
			extract.FromAttrs(attrs, "Cena za jednotku"),
		}},
		{Field: model.FieldCategory, Strategies: []extract.Strategy{
			categoryFromText,
		}},
		{Field: model.FieldDescription, Strategies: []extract.Strategy{
			extract.Selector("[class*=PropertyDescription]"),
			longestParagraph,
		}},
		{Field: model.FieldDescriptionEnglish, Strategies: []extract.Strategy{
			englishParagraph,
		}},
		{Field: model.FieldLocationFull, Strategies: []extract.Strategy{
			extract.Selector("[class*=PropertyAddress]"),
		}},
		{Field: model.FieldCity, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Město", "Obec"),
		}},
		{Field: model.FieldDistrict, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Městská část", "Část obce"),
		}},
		{Field: model.FieldStreet, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Ulice"),
		}},
		{Field: model.FieldArea, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Užitná plocha", "Plocha"),
			extract.TextRegex(areaLabeledRe, 1),
		}},
		{Field: model.FieldDisposition, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Dispozice"),
			extract.TextRegex(dispositionLabeledRe, 1),
		}},
		{Field: model.FieldFloor, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Podlaží"),
		}},
		{Field: model.FieldBuildingType, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Konstrukce budovy", "Typ budovy"),
		}},
		{Field: model.FieldCondition, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Stav"),
		}},
		{Field: model.FieldOwnership, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Vlastnictví"),
		}},
		{Field: model.FieldFurnished, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Vybaveno"),
		}},
		{Field: model.FieldEnergyRating, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "PENB", "Energetická náročnost"),
		}},
		{Field: model.FieldAvailableFrom, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Dostupné od"),
		}},
		{Field: model.FieldSellerType, Strategies: []extract.Strategy{
			sellerType("bez realitky", "přímo majitel"),
		}},
		{Field: model.FieldSellerPhone, Strategies: []extract.Strategy{
			extract.TextRegex(phoneRe, 0),
		}},
		{Field: model.FieldSellerEmail, Strategies: []extract.Strategy{
			extract.TextRegex(emailRe, 0),
		}},
	})

	// Critical-field backfills: recover location from the title or the full
	// location string, and area/disposition from the title.
	ex.Derive(model.FieldCity, extract.FirstOf(
		extract.SlotRegex(model.FieldTitle, cityDistrictRe, 1),
		extract.SlotRegex(model.FieldTitle, cityOnlyRe, 1),
		extract.SplitSlot(model.FieldLocationFull, " - ", 0),
	))
	ex.Derive(model.FieldDistrict, extract.FirstOf(
		extract.SlotRegex(model.FieldTitle, cityDistrictRe, 2),
		extract.SplitSlot(model.FieldLocationFull, " - ", 1),
	))
	ex.Derive(model.FieldStreet, extract.FirstOf(
		extract.SlotRegex(model.FieldTitle, streetRe, 1),
		extract.SplitSlot(model.FieldLocationFull, " - ", 2),
	))
	ex.Derive(model.FieldArea,
		extract.SlotRegex(model.FieldTitle, areaRe, 0))
	ex.Derive(model.FieldDisposition,
		extract.SlotRegex(model.FieldTitle, dispositionRe, 1))

	raw := ex.Extract(doc)
	raw.Source = s.Name()
	raw.Attributes = attrs
	raw.Breadcrumbs = collectBreadcrumbs(doc)
	raw.Features = collectFeatures(doc)
	raw.Amenities = scanAmenities(doc.Text())
	raw.Images = collectImages(doc,
		[]string{"img.bezrealitky", "images", "foto", "photo"},
		"https://www.bezrealitky.cz")

	if raw.Slot(model.FieldSellerType) == "owner" {
		raw.Slots[model.FieldSellerNote] = model.FieldSlot{
			Value:      "Prodává přímo majitel - bez provize",
			Confidence: model.ConfidenceBestEffort,
		}
	}
	return raw
}

func (s *bezrealitky) idFromURL(doc *extract.Document) string {
	if m := s.urlIDRe.FindStringSubmatch(doc.URL); m != nil {
		return m[1]
	}
	return ""
}
