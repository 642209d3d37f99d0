package sources

import (
	"regexp"
	"strings"

	"github.com/KajetanPoliak/proklep/internal/extract"
	"github.com/KajetanPoliak/proklep/internal/model"
)

// sreality extracts Sreality.cz listing pages. Sreality keeps parameters in
// label/value rows and puts the location into its own header line instead of
// the title, so the chains lean on the address element more than the
// bezrealitky ones do.
type sreality struct {
	urlIDRe *regexp.Regexp
}

func newSreality() *sreality {
	return &sreality{
		urlIDRe: regexp.MustCompile(`/(\d+)(?:$|[/?])`),
	}
}

func (s *sreality) Name() string { return "sreality" }

func (s *sreality) CanHandle(host string) bool {
	return strings.Contains(host, "sreality.cz")
}

func (s *sreality) Extract(doc *extract.Document) *model.RawExtraction {
	attrs := tableAttributes(doc)

	ex := extract.NewFieldExtractor([]extract.Chain{
		{Field: model.FieldTitle, Strategies: []extract.Strategy{
			extract.Selector("h1"),
			extract.Selector(".property-title"),
		}},
		{Field: model.FieldPropertyID, Strategies: []extract.Strategy{
			s.idFromURL,
			extract.FromAttrs(attrs, "ID zakázky", "ID"),
		}},
		{Field: model.FieldPrice, Strategies: []extract.Strategy{
			extract.Selector(".property-price"),
			extract.FromAttrs(attrs, "Celková cena", "Cena"),
			extract.TextRegex(priceRe, 1),
		}},
		{Field: model.FieldPricePerM2, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Poznámka k ceně"),
			extract.TextRegex(pricePerM2Re, 1),
		}},
		{Field: model.FieldCategory, Strategies: []extract.Strategy{
			categoryFromText,
		}},
		{Field: model.FieldDescription, Strategies: []extract.Strategy{
			extract.Selector(".description"),
			longestParagraph,
		}},
		{Field: model.FieldDescriptionEnglish, Strategies: []extract.Strategy{
			englishParagraph,
		}},
		{Field: model.FieldLocationFull, Strategies: []extract.Strategy{
			extract.Selector(".location-text"),
			extract.Selector("[class*=address]"),
		}},
		{Field: model.FieldCity, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Město", "Obec"),
		}},
		{Field: model.FieldDistrict, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Městská část"),
		}},
		{Field: model.FieldStreet, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Ulice"),
		}},
		{Field: model.FieldArea, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Užitná plocha", "Plocha podlahová"),
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
			extract.FromAttrs(attrs, "Stavba", "Konstrukce budovy"),
		}},
		{Field: model.FieldCondition, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Stav objektu", "Stav"),
		}},
		{Field: model.FieldOwnership, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Vlastnictví"),
		}},
		{Field: model.FieldFurnished, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Vybavení", "Vybaveno"),
		}},
		{Field: model.FieldEnergyRating, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Energetická náročnost budovy", "PENB"),
		}},
		{Field: model.FieldAvailableFrom, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Datum nastěhování", "Dostupné od"),
		}},
		{Field: model.FieldSellerType, Strategies: []extract.Strategy{
			sellerType("přímo majitel", "soukromá inzerce"),
		}},
		{Field: model.FieldSellerName, Strategies: []extract.Strategy{
			extract.Selector(".contact-name"),
		}},
		{Field: model.FieldSellerPhone, Strategies: []extract.Strategy{
			extract.TextRegex(phoneRe, 0),
		}},
		{Field: model.FieldSellerEmail, Strategies: []extract.Strategy{
			extract.TextRegex(emailRe, 0),
		}},
	})

	// The sreality location line reads "Úvalská, Praha 10 - Strašnice"; the
	// title carries disposition and area the same way bezrealitky's does.
	ex.Derive(model.FieldCity, extract.FirstOf(
		extract.SlotRegex(model.FieldLocationFull, cityDistrictRe, 1),
		extract.SlotRegex(model.FieldTitle, cityDistrictRe, 1),
		extract.SlotRegex(model.FieldTitle, cityOnlyRe, 1),
	))
	ex.Derive(model.FieldDistrict, extract.FirstOf(
		extract.SlotRegex(model.FieldLocationFull, cityDistrictRe, 2),
		extract.SlotRegex(model.FieldTitle, cityDistrictRe, 2),
		extract.SplitSlot(model.FieldLocationFull, " - ", 1),
	))
	ex.Derive(model.FieldStreet, extract.FirstOf(
		extract.SplitSlot(model.FieldLocationFull, ",", 0),
		extract.SlotRegex(model.FieldTitle, streetRe, 1),
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
		[]string{"sdn.cz", "sreality", "images", "foto", "photo"},
		"https://www.sreality.cz")
	return raw
}

func (s *sreality) idFromURL(doc *extract.Document) string {
	if m := s.urlIDRe.FindStringSubmatch(doc.URL); m != nil {
		return m[1]
	}
	return ""
}
