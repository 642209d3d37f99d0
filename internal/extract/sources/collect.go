package sources

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/KajetanPoliak/proklep/internal/extract"
	"github.com/KajetanPoliak/proklep/internal/util"
)

// Shared patterns over the cleaned visible text. CleanText collapses
// non-breaking and zero-width spaces, so plain spaces are enough here.
var (
	priceRe       = regexp.MustCompile(`(\d+(?: \d{3})+ ?Kč)`)
	pricePerM2Re  = regexp.MustCompile(`(\d+(?: \d{3})* ?Kč ?/ ?m2)`)
	areaRe        = regexp.MustCompile(`(\d+(?:[.,]\d+)?) ?m²`)
	areaLabeledRe = regexp.MustCompile(`Užitná plocha[: ]+(\d+(?:[.,]\d+)? ?m²)`)
	dispositionRe        = regexp.MustCompile(`(?i)\b(\d\+(?:kk|\d))\b`)
	dispositionLabeledRe = regexp.MustCompile(`(?i)Dispozice[: ]+(\d\+(?:kk|\d))`)
	phoneRe       = regexp.MustCompile(`\+420 ?\d{3} ?\d{3} ?\d{3}`)
	emailRe       = regexp.MustCompile(`[\w.+-]+@[\w.-]+\.\w{2,}`)

	// City - district pairs at the end of listing titles, e.g.
	// "Prodej bytu 3+kk, 57 m², Úvalská, Praha - Strašnice".
	cityDistrictRe = regexp.MustCompile(`, ?(Praha|Brno|Ostrava|Plzeň|Liberec|Olomouc|Hradec Králové|České Budějovice|Pardubice) ?[-–] ?([^,]+?)$`)
	cityOnlyRe     = regexp.MustCompile(`, ?(Praha|Brno|Ostrava|Plzeň|Liberec|Olomouc)(?: |$)`)
	streetRe       = regexp.MustCompile(`m² ?,? ?([^,]+?), ?(?:Praha|Brno|Ostrava|Plzeň|Liberec|Olomouc)`)
)

// amenityKeywords drive the text scan; sizes like "Sklep 4 m²" are kept
// attached so the normalizer can parse them out.
var amenityKeywords = []string{
	"Sklep", "Lodžie", "Balkon", "Terasa", "Zahrada",
	"Parkování", "Garáž", "Internet", "Výtah", "Bazén",
}

var amenityRes = buildAmenityRes()

func buildAmenityRes() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(amenityKeywords))
	for i, kw := range amenityKeywords {
		res[i] = regexp.MustCompile(`(?i)` + kw + `(?: +(\d+(?:[.,]\d+)?) ?m²)?`)
	}
	return res
}

// tableAttributes harvests the parameter table: two-cell table rows plus
// dt/dd definition pairs, whichever the page uses.
func tableAttributes(doc *extract.Document) map[string]string {
	attrs := make(map[string]string)

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() != 2 {
			return
		}
		key := util.CleanText(cells.Eq(0).Text())
		value := util.CleanText(cells.Eq(1).Text())
		if key != "" && value != "" {
			attrs[key] = value
		}
	})

	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		terms := dl.Find("dt")
		values := dl.Find("dd")
		if terms.Length() != values.Length() {
			return
		}
		terms.Each(func(i int, dt *goquery.Selection) {
			key := util.CleanText(dt.Text())
			value := util.CleanText(values.Eq(i).Text())
			if key != "" && value != "" {
				attrs[key] = value
			}
		})
	})

	return attrs
}

// collectBreadcrumbs pulls the navigation trail, preferring a real
// breadcrumb list and falling back to short list items.
func collectBreadcrumbs(doc *extract.Document) []string {
	var crumbs []string
	seen := make(map[string]bool)

	add := func(_ int, li *goquery.Selection) {
		text := util.CleanText(li.Text())
		if text == "" || len(text) >= 50 || seen[text] {
			return
		}
		seen[text] = true
		crumbs = append(crumbs, text)
	}

	doc.Find("nav li, ol.breadcrumb li, ul.breadcrumb li").Each(add)
	if len(crumbs) == 0 {
		doc.Find("li").Each(add)
	}
	return crumbs
}

// longestParagraph picks the listing description: the longest paragraph in a
// plausible length band that is not boilerplate.
func longestParagraph(doc *extract.Document) string {
	best := ""
	for _, cand := range descriptionCandidates(doc) {
		if len(cand) > len(best) {
			best = cand
		}
	}
	return best
}

// englishParagraph finds a translated description when the page carries one.
func englishParagraph(doc *extract.Document) string {
	for _, cand := range descriptionCandidates(doc) {
		head := cand
		if len(head) > 50 {
			head = head[:50]
		}
		for _, marker := range []string{"I am", "The apartment", "The property", "The flat"} {
			if strings.Contains(head, marker) {
				return cand
			}
		}
	}
	return ""
}

func descriptionCandidates(doc *extract.Document) []string {
	var cands []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := util.CleanText(p.Text())
		if len(text) <= 100 || len(text) >= 2000 {
			return
		}
		lower := strings.ToLower(text)
		for _, skip := range []string{"cookies", "soukromí", "podmínky", "© 20", "seznam.cz"} {
			if strings.Contains(lower, skip) {
				return
			}
		}
		cands = append(cands, text)
	})
	return cands
}

// scanAmenities runs the keyword scan over the visible text. Entries keep
// any embedded size so normalization can split it off.
func scanAmenities(text string) []string {
	var amenities []string
	for i, re := range amenityRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if m[1] != "" {
			amenities = append(amenities, amenityKeywords[i]+" "+m[1]+" m²")
		} else {
			amenities = append(amenities, amenityKeywords[i])
		}
	}
	return amenities
}

// collectFeatures extracts the bullet-separated subtitle feature line.
func collectFeatures(doc *extract.Document) []string {
	var features []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(doc.Text(), "•") {
		f := util.CleanText(line)
		if f == "" || len(f) >= 50 || seen[f] {
			continue
		}
		// Only keep fragments that look like feature labels, not prose.
		if strings.Count(f, " ") > 4 {
			continue
		}
		seen[f] = true
		features = append(features, f)
	}
	if len(features) > 12 {
		features = features[:12]
	}
	return features
}

// collectImages gathers listing photos whose src matches any of the given
// substrings, making protocol-relative and root-relative URLs absolute.
func collectImages(doc *extract.Document, patterns []string, baseURL string) []string {
	var images []string
	seen := make(map[string]bool)

	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		matched := false
		for _, p := range patterns {
			if strings.Contains(src, p) {
				matched = true
				break
			}
		}
		if !matched {
			return
		}
		switch {
		case strings.HasPrefix(src, "//"):
			src = "https:" + src
		case strings.HasPrefix(src, "/"):
			src = baseURL + src
		}
		if strings.HasPrefix(src, "http") && !seen[src] {
			seen[src] = true
			images = append(images, src)
		}
	})
	return images
}

// sellerType classifies direct-owner listings by page wording.
func sellerType(markers ...string) extract.Strategy {
	return func(d *extract.Document) string {
		lower := strings.ToLower(d.Text())
		for _, m := range markers {
			if strings.Contains(lower, m) {
				return "owner"
			}
		}
		return "agent"
	}
}

// categoryFromText detects the sale/rental category markers.
func categoryFromText(d *extract.Document) string {
	text := d.Text()
	if strings.Contains(text, "Pronájem") || strings.Contains(text, "pronájem") {
		return "Pronájem"
	}
	if strings.Contains(text, "Prodej") || strings.Contains(text, "prodej") {
		return "Prodej"
	}
	return ""
}
