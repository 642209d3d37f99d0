package sources

import (
	"github.com/KajetanPoliak/proklep/internal/extract"
	"github.com/KajetanPoliak/proklep/internal/model"
)

// generic is the fallback source for hosts no specific source claims. It
// relies on the text patterns Czech listing pages share rather than on any
// site's markup.
type generic struct{}

func newGeneric() *generic { return &generic{} }

func (g *generic) Name() string { return "generic" }

func (g *generic) CanHandle(string) bool { return true }

func (g *generic) Extract(doc *extract.Document) *model.RawExtraction {
	attrs := tableAttributes(doc)

	ex := extract.NewFieldExtractor([]extract.Chain{
		{Field: model.FieldTitle, Strategies: []extract.Strategy{
			extract.Selector("h1"),
			extract.Selector("title"),
		}},
		{Field: model.FieldPropertyID, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Číslo inzerátu", "ID zakázky", "ID"),
		}},
		{Field: model.FieldPrice, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Celková cena", "Cena"),
			extract.TextRegex(priceRe, 1),
		}},
		{Field: model.FieldPricePerM2, Strategies: []extract.Strategy{
			extract.TextRegex(pricePerM2Re, 1),
		}},
		{Field: model.FieldCategory, Strategies: []extract.Strategy{
			categoryFromText,
		}},
		{Field: model.FieldDescription, Strategies: []extract.Strategy{
			longestParagraph,
		}},
		{Field: model.FieldDescriptionEnglish, Strategies: []extract.Strategy{
			englishParagraph,
		}},
		{Field: model.FieldLocationFull, Strategies: []extract.Strategy{
			extract.Selector("[class*=address]"),
			extract.Selector("[class*=location]"),
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
			extract.FromAttrs(attrs, "Konstrukce budovy", "Stavba"),
		}},
		{Field: model.FieldCondition, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Stav", "Stav objektu"),
		}},
		{Field: model.FieldOwnership, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "Vlastnictví"),
		}},
		{Field: model.FieldEnergyRating, Strategies: []extract.Strategy{
			extract.FromAttrs(attrs, "PENB", "Energetická náročnost budovy"),
		}},
		{Field: model.FieldSellerType, Strategies: []extract.Strategy{
			sellerType("přímo majitel", "bez realitky"),
		}},
		{Field: model.FieldSellerPhone, Strategies: []extract.Strategy{
			extract.TextRegex(phoneRe, 0),
		}},
		{Field: model.FieldSellerEmail, Strategies: []extract.Strategy{
			extract.TextRegex(emailRe, 0),
		}},
	})

	ex.Derive(model.FieldCity, extract.FirstOf(
		extract.SlotRegex(model.FieldTitle, cityDistrictRe, 1),
		extract.SlotRegex(model.FieldTitle, cityOnlyRe, 1),
		extract.SplitSlot(model.FieldLocationFull, " - ", 0),
	))
	ex.Derive(model.FieldDistrict, extract.FirstOf(
		extract.SlotRegex(model.FieldTitle, cityDistrictRe, 2),
		extract.SplitSlot(model.FieldLocationFull, " - ", 1),
	))
	ex.Derive(model.FieldStreet,
		extract.SlotRegex(model.FieldTitle, streetRe, 1))
	ex.Derive(model.FieldArea,
		extract.SlotRegex(model.FieldTitle, areaRe, 0))
	ex.Derive(model.FieldDisposition,
		extract.SlotRegex(model.FieldTitle, dispositionRe, 1))

	raw := ex.Extract(doc)
	raw.Source = g.Name()
	raw.Attributes = attrs
	raw.Breadcrumbs = collectBreadcrumbs(doc)
	raw.Features = collectFeatures(doc)
	raw.Amenities = scanAmenities(doc.Text())
	raw.Images = collectImages(doc, []string{"images", "foto", "photo", "img"}, "")
	return raw
}
