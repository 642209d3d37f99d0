package extract

import (
	"regexp"
	"strings"

	"github.com/KajetanPoliak/proklep/internal/model"
	"github.com/KajetanPoliak/proklep/internal/util"
)

// Strategy pulls one raw value out of a parsed page. Strategies are pure
// functions over the document and return "" when they cannot resolve the
// field.
type Strategy func(*Document) string

// Derivation backfills a field from slots that were already extracted, e.g.
// splitting the full location string to recover city and district. It runs
// only after every strategy in the field's chain came up empty.
type Derivation func(*Document, map[string]model.FieldSlot) string

// Chain is the ordered strategy list for one field. Strategies are tried in
// priority order; the first non-empty, non-whitespace result wins.
type Chain struct {
	Field      string
	Strategies []Strategy
}

// FieldExtractor runs a set of chains over a document and produces a
// RawExtraction. Critical fields additionally fall back to derivations
// before being recorded as missing.
type FieldExtractor struct {
	chains      []Chain
	derivations map[string]Derivation
}

// NewFieldExtractor builds an extractor from ordered chains.
func NewFieldExtractor(chains []Chain) *FieldExtractor {
	return &FieldExtractor{
		chains:      chains,
		derivations: make(map[string]Derivation),
	}
}

// Derive registers the derivation fallback for a field.
func (e *FieldExtractor) Derive(field string, d Derivation) *FieldExtractor {
	e.derivations[field] = d
	return e
}

// Extract runs every chain, then derivations for unresolved critical fields.
// A field no path can resolve is recorded with confidence missing; that is
// never fatal for the page.
func (e *FieldExtractor) Extract(doc *Document) *model.RawExtraction {
	raw := &model.RawExtraction{
		URL:   doc.URL,
		Slots: make(map[string]model.FieldSlot, len(e.chains)),
	}

	for _, chain := range e.chains {
		raw.Slots[chain.Field] = runChain(doc, chain)
	}

	// Derivation pass: critical fields must exhaust every registered path
	// before giving up.
	for _, field := range model.CriticalFields {
		slot, ok := raw.Slots[field]
		if ok && slot.Confidence != model.ConfidenceMissing {
			continue
		}
		derive, ok := e.derivations[field]
		if !ok {
			continue
		}
		if v := util.CleanText(derive(doc, raw.Slots)); v != "" {
			raw.Slots[field] = model.FieldSlot{
				Value:        v,
				StrategyRank: len(chainFor(e.chains, field)),
				Confidence:   model.ConfidenceBestEffort,
			}
		}
	}

	return raw
}

func runChain(doc *Document, chain Chain) model.FieldSlot {
	for rank, strategy := range chain.Strategies {
		v := util.CleanText(strategy(doc))
		if v == "" {
			continue
		}
		confidence := model.ConfidenceGuaranteed
		if rank > 0 {
			confidence = model.ConfidenceBestEffort
		}
		return model.FieldSlot{Value: v, StrategyRank: rank, Confidence: confidence}
	}
	return model.FieldSlot{Confidence: model.ConfidenceMissing}
}

func chainFor(chains []Chain, field string) []Strategy {
	for _, c := range chains {
		if c.Field == field {
			return c.Strategies
		}
	}
	return nil
}

// Common strategy constructors shared by the source implementations.

// FromAttrs resolves the field from a raw attribute table, trying the given
// keys in order.
func FromAttrs(attrs map[string]string, keys ...string) Strategy {
	return func(*Document) string {
		for _, k := range keys {
			if v, ok := attrs[k]; ok {
				return v
			}
		}
		return ""
	}
}

// Selector resolves the field from the first node matching a CSS selector.
func Selector(selector string) Strategy {
	return func(d *Document) string {
		return d.FirstText(selector)
	}
}

// TextRegex resolves the field from the page's visible text, returning the
// given capture group.
func TextRegex(re *regexp.Regexp, group int) Strategy {
	return func(d *Document) string {
		m := re.FindStringSubmatch(d.Text())
		if len(m) <= group {
			return ""
		}
		return m[group]
	}
}

// SlotRegex derives a value by matching a regex against another slot that
// was already extracted.
func SlotRegex(field string, re *regexp.Regexp, group int) Derivation {
	return func(_ *Document, slots map[string]model.FieldSlot) string {
		slot, ok := slots[field]
		if !ok || slot.Confidence == model.ConfidenceMissing {
			return ""
		}
		m := re.FindStringSubmatch(slot.Value)
		if len(m) <= group {
			return ""
		}
		return m[group]
	}
}

// SplitSlot derives a value by splitting another slot on a delimiter and
// returning the part at index (negative counts from the end).
func SplitSlot(field, delimiter string, index int) Derivation {
	return func(_ *Document, slots map[string]model.FieldSlot) string {
		slot, ok := slots[field]
		if !ok || slot.Confidence == model.ConfidenceMissing {
			return ""
		}
		parts := strings.Split(slot.Value, delimiter)
		if index < 0 {
			index += len(parts)
		}
		if index < 0 || index >= len(parts) {
			return ""
		}
		return parts[index]
	}
}

// FirstOf tries derivations in order and returns the first non-empty result.
func FirstOf(derivations ...Derivation) Derivation {
	return func(d *Document, slots map[string]model.FieldSlot) string {
		for _, derive := range derivations {
			if v := derive(d, slots); strings.TrimSpace(v) != "" {
				return v
			}
		}
		return ""
	}
}
