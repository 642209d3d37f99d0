package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/KajetanPoliak/proklep/internal/util"
)

// Document wraps one parsed listing page. Extraction strategies are written
// against this type only, so sources never depend on a particular markup
// library directly.
type Document struct {
	URL string

	doc       *goquery.Document
	text      string // lazily built visible text
	textBuilt bool
}

// NewDocument parses an HTML stream into a Document.
func NewDocument(url string, r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Document{URL: url, doc: doc}, nil
}

// ParseDocument parses an HTML string into a Document.
func ParseDocument(url, htmlContent string) (*Document, error) {
	return NewDocument(url, strings.NewReader(htmlContent))
}

// Find returns the selection matching a CSS selector.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// FirstText returns the cleaned text of the first node matching the
// selector, or "" when nothing matches.
func (d *Document) FirstText(selector string) string {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return util.CleanText(sel.Text())
}

// Text returns the page's visible text with scripts, styles and embedded
// frames skipped. Built once and reused by regex strategies.
func (d *Document) Text() string {
	if !d.textBuilt {
		var b strings.Builder
		for _, n := range d.doc.Selection.Nodes {
			visibleText(n, &b)
		}
		d.text = util.CleanText(b.String())
		d.textBuilt = true
	}
	return d.text
}

func visibleText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "iframe":
			return
		}
	}
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			b.WriteString(t)
			b.WriteString(" ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		visibleText(c, b)
	}
}
